package ftmw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRangeParams() AcquisitionParams {
	return AcquisitionParams{
		Molecule:            "OCS",
		StepSize:            0.5,
		FrequencyMin:        8000,
		FrequencyMax:        8100,
		NumCyclesPerStep:    10,
		MicrowavePulseWidth: 1,
		MWBand:              2,
		RepetitionRate:      5,
		MolecularPulseWidth: 20,
		AcquisitionType:     AcquisitionRange,
		VRes:                8050,
	}
}

func TestAcquisitionParams_Validate(t *testing.T) {
	valid := validRangeParams()
	require.NoError(t, valid.Validate())

	single := valid
	single.AcquisitionType = AcquisitionSingle
	single.FrequencyMin, single.FrequencyMax, single.StepSize = 0, 0, 0
	require.NoError(t, single.Validate(), "single mode does not need band fields")

	tests := []struct {
		name   string
		mutate func(*AcquisitionParams)
	}{
		{"missing molecule", func(p *AcquisitionParams) { p.Molecule = "" }},
		{"zero cycles", func(p *AcquisitionParams) { p.NumCyclesPerStep = 0 }},
		{"negative mw pulse", func(p *AcquisitionParams) { p.MicrowavePulseWidth = -1 }},
		{"zero molecular pulse", func(p *AcquisitionParams) { p.MolecularPulseWidth = 0 }},
		{"zero repetition rate", func(p *AcquisitionParams) { p.RepetitionRate = 0 }},
		{"zero band", func(p *AcquisitionParams) { p.MWBand = 0 }},
		{"unknown mode", func(p *AcquisitionParams) { p.AcquisitionType = "sweep" }},
		{"inverted band", func(p *AcquisitionParams) { p.FrequencyMin, p.FrequencyMax = 8100, 8000 }},
		{"zero step in range mode", func(p *AcquisitionParams) { p.StepSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validRangeParams()
			tt.mutate(&p)

			var configErr *ConfigError
			require.ErrorAs(t, p.Validate(), &configErr)
		})
	}

	t.Run("zero vres in single mode", func(t *testing.T) {
		p := validRangeParams()
		p.AcquisitionType = AcquisitionSingle
		p.VRes = 0

		var configErr *ConfigError
		require.ErrorAs(t, p.Validate(), &configErr)
	})
}

func TestAcquisitionParams_Band(t *testing.T) {
	p := validRangeParams()

	cropMin, cropMax := p.Band(25)
	assert.Equal(t, 7975.0, cropMin)
	assert.Equal(t, 8125.0, cropMax)

	p.AcquisitionType = AcquisitionSingle
	cropMin, cropMax = p.Band(25)
	assert.Equal(t, 8025.0, cropMin)
	assert.Equal(t, 8075.0, cropMax)
}
