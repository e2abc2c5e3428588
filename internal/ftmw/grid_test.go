package ftmw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

func TestNewGrid(t *testing.T) {
	grid, err := NewGrid(100, 101, 0.001)
	require.NoError(t, err)

	require.Len(t, grid, 1000)
	assert.Equal(t, 100.0, grid[0])
	assert.Less(t, grid[len(grid)-1], 101.0, "grid is half-open")

	for i := 1; i < len(grid); i++ {
		require.Greater(t, grid[i], grid[i-1], "grid must be strictly increasing")
	}
}

func TestNewGrid_Invalid(t *testing.T) {
	var configErr *ConfigError

	_, err := NewGrid(101, 100, 0.001)
	require.ErrorAs(t, err, &configErr)

	_, err = NewGrid(100, 100, 0.001)
	require.ErrorAs(t, err, &configErr, "min == max is an empty grid")

	_, err = NewGrid(100, 101, 0)
	require.ErrorAs(t, err, &configErr)
}

func TestAccumulateInto_Interpolation(t *testing.T) {
	grid := []float64{0.5, 1.5, 3.0}
	acc := make([]float64, len(grid))

	localGrid := []float64{0, 1, 2}
	local := []float64{0, 10, 20}

	require.NoError(t, AccumulateInto(acc, grid, localGrid, local))

	assert.InDelta(t, 5.0, acc[0], 1e-12)
	assert.InDelta(t, 15.0, acc[1], 1e-12)
	assert.Equal(t, 0.0, acc[2], "outside the local domain there is no contribution")
}

func TestAccumulateInto_ZeroOutsideLocalDomain(t *testing.T) {
	grid, err := NewGrid(0, 10, 0.1)
	require.NoError(t, err)
	acc := make([]float64, len(grid))

	localGrid, local, err := DopplerDoublet(spectrum.Line{Frequency: 5, Intensity: 1}, 0.01, 1, 0.1)
	require.NoError(t, err)
	require.NoError(t, AccumulateInto(acc, grid, localGrid, local))

	for i, f := range grid {
		if f < 4 || f > 6 {
			require.Zero(t, acc[i], "frequency %g is outside the local window", f)
		}
	}
}

func TestAccumulateInto_OrderIndependent(t *testing.T) {
	grid, err := NewGrid(90, 110, 0.01)
	require.NoError(t, err)

	lines := []spectrum.Line{
		{Frequency: 95, Intensity: 1},
		{Frequency: 100, Intensity: 3},
		{Frequency: 100.5, Intensity: 0.5},
		{Frequency: 104, Intensity: 2},
	}

	accumulate := func(order []int) []float64 {
		acc := make([]float64, len(grid))
		for _, i := range order {
			localGrid, local, err := DopplerDoublet(lines[i], 0.05, 2, 0.01)
			require.NoError(t, err)
			require.NoError(t, AccumulateInto(acc, grid, localGrid, local))
		}
		return acc
	}

	want := accumulate([]int{0, 1, 2, 3})
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		order := rnd.Perm(len(lines))
		got := accumulate(order)
		require.True(t, floats.EqualApprox(want, got, 1e-12), "permutation %v changed the accumulated spectrum", order)
	}
}

func TestAccumulateInto_ShapeMismatch(t *testing.T) {
	var computeErr *ComputeError

	err := AccumulateInto(make([]float64, 3), make([]float64, 4), nil, nil)
	require.ErrorAs(t, err, &computeErr)

	err = AccumulateInto(make([]float64, 3), make([]float64, 3), make([]float64, 2), make([]float64, 1))
	require.ErrorAs(t, err, &computeErr)
}
