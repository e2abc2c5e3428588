package ftmw

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

// Instrument holds the physical model constants of the simulated
// spectrometer. Frequencies and widths are in MHz.
type Instrument struct {
	Window     float64 `yaml:"window"`     // Half width of the per-line local grid
	Resolution float64 `yaml:"resolution"` // Grid step of local and global grids
	FWHM       float64 `yaml:"fwhm"`       // Full width at half maximum of every line
	Q          float64 `yaml:"q"`          // Cavity quality factor
	PMax       float64 `yaml:"pmax"`       // Peak amplitude of the cavity response
}

// DefaultInstrument returns the stock instrument model.
func DefaultInstrument() Instrument {
	return Instrument{
		Window:     25,
		Resolution: 0.001,
		FWHM:       0.007,
		Q:          10000,
		PMax:       1.0,
	}
}

func (i Instrument) validate() error {
	if i.Window <= 0 {
		return NewConfigError("instrument window must be positive, got %g", i.Window)
	}
	if i.Resolution <= 0 {
		return NewConfigError("instrument resolution must be positive, got %g", i.Resolution)
	}
	if i.FWHM <= 0 {
		return NewConfigError("instrument fwhm must be positive, got %g", i.FWHM)
	}
	if i.Q <= 0 {
		return NewConfigError("instrument q must be positive, got %g", i.Q)
	}
	if i.PMax <= 0 {
		return NewConfigError("instrument pmax must be positive, got %g", i.PMax)
	}
	return nil
}

// LineSource supplies catalog lines for a molecule, cropped to a
// frequency band inclusive on both ends.
type LineSource interface {
	Lines(ctx context.Context, molecule string, minFreq, maxFreq float64) ([]spectrum.Line, error)
}

// WithInstrument overrides the default instrument model.
func WithInstrument(inst Instrument) func(*Simulator) {
	return func(s *Simulator) {
		s.inst = inst
	}
}

// WithNoise sets the noise injector used for both the signal and the
// cavity response.
func WithNoise(noise *NoiseInjector) func(*Simulator) {
	return func(s *Simulator) {
		s.noise = noise
	}
}

// WithLogger sets the logger for the simulator.
func WithLogger(logger *slog.Logger) func(*Simulator) {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// Simulator runs the spectrum synthesis pipeline: catalog lines are
// broadened into Doppler doublets, accumulated onto a common grid,
// perturbed by acquisition noise, filtered by the cavity-mode
// response and rectified. Every acquisition owns its buffers, so a
// single Simulator may serve concurrent requests as long as each uses
// its own NoiseInjector; with the shared default injector the draws
// interleave but stay valid.
type Simulator struct {
	source LineSource
	inst   Instrument
	noise  *NoiseInjector
	logger *slog.Logger
}

// NewSimulator creates a Simulator reading lines from source.
func NewSimulator(source LineSource, options ...func(*Simulator)) *Simulator {
	s := Simulator{
		source: source,
		inst:   DefaultInstrument(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.noise == nil {
		s.noise = NewNoiseInjector()
	}
	return &s
}

// Acquire synthesizes the spectrum for one validated acquisition
// request and returns it with intensities rectified to absolute
// values.
func (s *Simulator) Acquire(ctx context.Context, p *AcquisitionParams) (*spectrum.Spectrum, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.inst.validate(); err != nil {
		return nil, err
	}

	cropMin, cropMax := p.Band(s.inst.Window)
	grid, err := NewGrid(cropMin, cropMax, s.inst.Resolution)
	if err != nil {
		return nil, err
	}

	// A line contributes when any part of its local window overlaps
	// the padded band, hence the extra window on each side.
	lines, err := s.source.Lines(ctx, p.Molecule, cropMin-s.inst.Window, cropMax+s.inst.Window)
	if err != nil {
		return nil, fmt.Errorf("reading line list for %s: %w", p.Molecule, err)
	}

	acc := make([]float64, len(grid))
	for _, line := range lines {
		localGrid, local, err := DopplerDoublet(line, s.inst.FWHM, s.inst.Window, s.inst.Resolution)
		if err != nil {
			return nil, fmt.Errorf("broadening line at %g MHz: %w", line.Frequency, err)
		}
		if err = AccumulateInto(acc, grid, localGrid, local); err != nil {
			return nil, err
		}
	}

	if err = s.noise.AddWhiteNoise(acc, p.NumCyclesPerStep, false); err != nil {
		return nil, err
	}

	response, err := CavityResponse(grid, p, s.inst.Q, s.inst.PMax)
	if err != nil {
		return nil, err
	}
	if err = s.noise.AddWhiteNoise(response, p.NumCyclesPerStep, true); err != nil {
		return nil, err
	}

	floats.Mul(acc, response)
	for i := range acc {
		acc[i] = math.Abs(acc[i])
	}

	s.logger.Debug("acquisition complete",
		slog.String("molecule", p.Molecule),
		slog.String("acquisitionType", string(p.AcquisitionType)),
		slog.Int("lines", len(lines)),
		slog.Int("gridSize", len(grid)),
	)

	return &spectrum.Spectrum{Frequencies: grid, Intensities: acc}, nil
}
