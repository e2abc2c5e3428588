package ftmw

const (
	// AcquisitionSingle acquires around a single resonance frequency
	AcquisitionSingle AcquisitionType = "single"

	// AcquisitionRange sweeps the cavity across a frequency band in
	// steps of StepSize
	AcquisitionRange AcquisitionType = "range"
)

// AcquisitionType selects between a single cavity resonance and a
// stepped frequency-range acquisition.
type AcquisitionType string

// AcquisitionParams is the validated configuration for one
// acquisition. All fields are required; Validate must be called
// before the parameters enter the pipeline. Frequencies are in MHz,
// pulse widths in microseconds and the repetition rate in Hz.
type AcquisitionParams struct {
	Molecule            string          `yaml:"molecule" json:"molecule"`
	StepSize            float64         `yaml:"stepSize" json:"stepSize"`
	FrequencyMin        float64         `yaml:"frequencyMin" json:"frequencyMin"`
	FrequencyMax        float64         `yaml:"frequencyMax" json:"frequencyMax"`
	NumCyclesPerStep    int             `yaml:"numCyclesPerStep" json:"numCyclesPerStep"`
	MicrowavePulseWidth float64         `yaml:"microwavePulseWidth" json:"microwavePulseWidth"`
	MWBand              int             `yaml:"mwBand" json:"mwBand"`
	RepetitionRate      float64         `yaml:"repetitionRate" json:"repetitionRate"`
	MolecularPulseWidth float64         `yaml:"molecularPulseWidth" json:"molecularPulseWidth"`
	AcquisitionType     AcquisitionType `yaml:"acquisitionType" json:"acquisitionType"`
	VRes                float64         `yaml:"vres" json:"vres"`
}

// Validate checks that every field is present and physically
// meaningful. It returns a ConfigError naming the first offending
// field.
func (p *AcquisitionParams) Validate() error {
	if p.Molecule == "" {
		return NewConfigError("molecule is required")
	}
	if p.NumCyclesPerStep <= 0 {
		return NewConfigError("numCyclesPerStep must be positive, got %d", p.NumCyclesPerStep)
	}
	if p.MicrowavePulseWidth <= 0 {
		return NewConfigError("microwavePulseWidth must be positive, got %g", p.MicrowavePulseWidth)
	}
	if p.MolecularPulseWidth <= 0 {
		return NewConfigError("molecularPulseWidth must be positive, got %g", p.MolecularPulseWidth)
	}
	if p.RepetitionRate <= 0 {
		return NewConfigError("repetitionRate must be positive, got %g", p.RepetitionRate)
	}
	if p.MWBand <= 0 {
		return NewConfigError("mwBand must be positive, got %d", p.MWBand)
	}

	switch p.AcquisitionType {
	case AcquisitionSingle:
		if p.VRes <= 0 {
			return NewConfigError("vres must be positive in single mode, got %g", p.VRes)
		}

	case AcquisitionRange:
		if p.FrequencyMin <= 0 {
			return NewConfigError("frequencyMin must be positive in range mode, got %g", p.FrequencyMin)
		}
		if p.FrequencyMax <= p.FrequencyMin {
			return NewConfigError("frequencyMax (%g) must be greater than frequencyMin (%g)",
				p.FrequencyMax, p.FrequencyMin)
		}
		if p.StepSize <= 0 {
			return NewConfigError("stepSize must be positive in range mode, got %g", p.StepSize)
		}

	default:
		return NewConfigError("unknown acquisitionType '%s'", p.AcquisitionType)
	}

	return nil
}

// Band returns the cropping bounds of the acquisition: the requested
// band padded by the line-shape window on both sides, or vres padded
// by the window for a single-resonance acquisition.
func (p *AcquisitionParams) Band(window float64) (cropMin, cropMax float64) {
	if p.AcquisitionType == AcquisitionSingle {
		return p.VRes - window, p.VRes + window
	}
	return p.FrequencyMin - window, p.FrequencyMax + window
}
