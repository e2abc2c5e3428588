package spectrum

// Line represents a single catalog entry for a molecule: a rest
// frequency and the tabulated line intensity. Frequencies are in MHz,
// intensities in arbitrary units. Lines are immutable once read from
// a catalog.
type Line struct {
	Frequency float64 `json:"frequency" yaml:"frequency"` // Rest frequency in MHz
	Intensity float64 `json:"intensity" yaml:"intensity"` // Line intensity, arbitrary units
}

// Spectrum pairs a frequency grid with intensity values. The two
// slices are always the same length and the grid is strictly
// increasing.
type Spectrum struct {
	Frequencies []float64 `json:"x"` // Frequency grid in MHz
	Intensities []float64 `json:"y"` // Intensity per grid sample
}

// Len returns the number of samples in the spectrum.
func (s *Spectrum) Len() int {
	return len(s.Frequencies)
}

// Bounds returns the first and last frequency of the grid.
// Both values are zero for an empty spectrum.
func (s *Spectrum) Bounds() (minFreq, maxFreq float64) {
	if len(s.Frequencies) == 0 {
		return 0, 0
	}
	return s.Frequencies[0], s.Frequencies[len(s.Frequencies)-1]
}

// Peak is a detected local maximum in a spectrum.
type Peak struct {
	Index     int     `json:"-"`         // Grid index of the maximum
	Frequency float64 `json:"frequency"` // Frequency of the maximum in MHz
	Intensity float64 `json:"intensity"` // Intensity at the maximum
}
