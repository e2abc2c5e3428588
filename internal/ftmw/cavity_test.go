package ftmw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCavityResponse_SingleMode(t *testing.T) {
	const (
		vres = 8206.4
		q    = 10000.0
		pmax = 1.0
	)

	params := &AcquisitionParams{AcquisitionType: AcquisitionSingle, VRes: vres}
	hwhm := vres / (2 * q)

	grid := []float64{vres - 10, vres - hwhm, vres, vres + hwhm, vres + 10}
	response, err := CavityResponse(grid, params, q, pmax)
	require.NoError(t, err)

	assert.InDelta(t, pmax, response[2], 1e-12, "peak amplitude at resonance")
	assert.InDelta(t, pmax/2, response[1], 1e-9, "half maximum at vres - hwhm")
	assert.InDelta(t, pmax/2, response[3], 1e-9, "half maximum at vres + hwhm")

	for i, v := range response {
		require.Greater(t, v, 0.0, "index %d", i)
		require.LessOrEqual(t, v, pmax+1e-12, "index %d", i)
	}
}

func TestCavityResponse_RangeModeSpacing(t *testing.T) {
	const (
		freqMin  = 100.0
		freqMax  = 101.0
		stepSize = 0.2
		res      = 0.001
	)

	params := &AcquisitionParams{
		AcquisitionType: AcquisitionRange,
		FrequencyMin:    freqMin,
		FrequencyMax:    freqMax,
		StepSize:        stepSize,
	}

	grid, err := NewGrid(freqMin-0.5, freqMax+0.5, res)
	require.NoError(t, err)
	response, err := CavityResponse(grid, params, 10000, 1.0)
	require.NoError(t, err)

	peaks, err := FindPeaks(grid, response, 0.5, 50)
	require.NoError(t, err)

	// floor((max-min)/step)+1 modes, spaced exactly stepSize apart.
	require.Len(t, peaks, 6)
	for i := 1; i < len(peaks); i++ {
		assert.InDelta(t, stepSize, peaks[i].Frequency-peaks[i-1].Frequency, res,
			"spacing between peak %d and %d", i-1, i)
	}
	assert.InDelta(t, freqMin, peaks[0].Frequency, res)
	assert.InDelta(t, freqMax, peaks[len(peaks)-1].Frequency, res)
}

func TestCavityResponse_Invalid(t *testing.T) {
	var configErr *ConfigError

	params := &AcquisitionParams{AcquisitionType: AcquisitionSingle, VRes: 100}
	_, err := CavityResponse([]float64{100}, params, 0, 1)
	require.ErrorAs(t, err, &configErr)

	params = &AcquisitionParams{AcquisitionType: "sweep"}
	_, err = CavityResponse([]float64{100}, params, 10000, 1)
	require.ErrorAs(t, err, &configErr)
}
