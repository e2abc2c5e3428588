package ftmw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

func TestLorentzian_PeakValue(t *testing.T) {
	const (
		center = 1000.0
		fwhm   = 0.007
	)
	hwhm := fwhm / 2

	grid := []float64{center - 1, center - hwhm, center, center + hwhm, center + 1}
	values := Lorentzian(grid, center, fwhm)

	// Maximum 1/(π·hwhm) at the center, half of that at ±hwhm.
	assert.InDelta(t, 1/(math.Pi*hwhm), values[2], 1e-9)
	assert.InDelta(t, values[2]/2, values[1], 1e-9)
	assert.InDelta(t, values[2]/2, values[3], 1e-9)
}

func TestLorentzian_SymmetryAndDecay(t *testing.T) {
	const center = 500.0

	grid, err := NewGrid(center-1, center+1, 0.001)
	require.NoError(t, err)
	values := Lorentzian(grid, center, 0.01)

	n := len(grid)
	for _, i := range []int{1, 10, 250, n / 4} {
		assert.InDelta(t, values[i], values[n-i], 1e-6, "mirror sample of index %d", i)
	}

	// Monotonic decay away from the center in both directions.
	mid := n / 2
	for i := mid + 1; i < n; i++ {
		require.LessOrEqual(t, values[i], values[i-1], "index %d", i)
	}
	for i := mid - 1; i >= 0; i-- {
		require.LessOrEqual(t, values[i], values[i+1], "index %d", i)
	}
}

func TestDopplerDoublet(t *testing.T) {
	line := spectrum.Line{Frequency: 8206.4, Intensity: 2.5}

	grid, values, err := DopplerDoublet(line, 0.007, 1, 0.001)
	require.NoError(t, err)
	require.Len(t, values, len(grid))
	assert.InDelta(t, line.Frequency-1, grid[0], 1e-9)

	split := line.Frequency / speedOfLight * heliumVRMS
	require.Greater(t, split, 0.0)

	// Non-negative everywhere, symmetric about the line center.
	n := len(grid)
	for i, v := range values {
		require.GreaterOrEqual(t, v, 0.0, "index %d", i)
	}
	for _, i := range []int{1, 100, n / 3} {
		assert.InDelta(t, values[i], values[n-i], 1e-6, "mirror sample of index %d", i)
	}

	// The two sub-peaks sit at f0±split and carry the full line
	// intensity each.
	hwhm := 0.007 / 2
	peak := line.Intensity / (math.Pi * hwhm)
	upperIdx := int((split + 1) / 0.001)
	assert.InDelta(t, peak, values[upperIdx], peak*0.05)
}

func TestDopplerDoublet_OverlappingSubPeaks(t *testing.T) {
	// Window smaller than the doublet splitting is permitted.
	line := spectrum.Line{Frequency: 20000, Intensity: 1}

	_, values, err := DopplerDoublet(line, 0.007, 0.05, 0.001)
	require.NoError(t, err)
	for _, v := range values {
		require.GreaterOrEqual(t, v, 0.0)
	}
}

func TestDopplerDoublet_Invalid(t *testing.T) {
	_, _, err := DopplerDoublet(spectrum.Line{Frequency: -1, Intensity: 1}, 0.007, 1, 0.001)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)

	_, _, err = DopplerDoublet(spectrum.Line{Frequency: 100, Intensity: 1}, 0, 1, 0.001)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
}
