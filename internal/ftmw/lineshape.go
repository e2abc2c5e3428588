package ftmw

import (
	"math"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

const (
	speedOfLight = 299792458.0 // m/s

	// RMS velocity of the helium carrier gas expanding into the
	// cavity; it sets the Doppler splitting of every line.
	heliumVRMS = 1760.0 // m/s
)

// lorentzianAt evaluates a unit-area Lorentzian of half width hwhm
// centered at center:
//
//	L(f) = (1/π) · hwhm / ((f − center)² + hwhm²)
//
// The maximum is 1/(π·hwhm) at f = center.
func lorentzianAt(f, center, hwhm float64) float64 {
	d := f - center
	return hwhm / (math.Pi * (d*d + hwhm*hwhm))
}

// Lorentzian evaluates the normalized Lorentzian line shape with full
// width fwhm on every sample of the grid.
func Lorentzian(grid []float64, center, fwhm float64) []float64 {
	hwhm := fwhm / 2
	values := make([]float64, len(grid))
	for i, f := range grid {
		values[i] = lorentzianAt(f, center, hwhm)
	}
	return values
}

// DopplerDoublet computes the local spectrum of a single catalog line:
// a frequency grid spanning [f0−window, f0+window) at the given
// resolution, and the sum of two Lorentzian components centered at
// f0±δ, where δ = f0·(vrms/c). Both components carry the full line
// intensity. The sub-peaks may overlap when the window is smaller
// than the splitting; that is fine.
func DopplerDoublet(line spectrum.Line, fwhm, window, resolution float64) (grid, values []float64, err error) {
	if line.Frequency <= 0 {
		return nil, nil, NewDataError("line frequency must be positive, got %g", line.Frequency)
	}
	if fwhm <= 0 {
		return nil, nil, NewConfigError("fwhm must be positive, got %g", fwhm)
	}

	grid, err = NewGrid(line.Frequency-window, line.Frequency+window, resolution)
	if err != nil {
		return nil, nil, err
	}

	split := line.Frequency / speedOfLight * heliumVRMS
	upper := line.Frequency + split
	lower := line.Frequency - split
	hwhm := fwhm / 2

	values = make([]float64, len(grid))
	for i, f := range grid {
		values[i] = line.Intensity * (lorentzianAt(f, upper, hwhm) + lorentzianAt(f, lower, hwhm))
	}
	return grid, values, nil
}
