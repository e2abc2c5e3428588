package ftmw

// NewGrid builds a frequency grid of the half-open interval
// [minFreq, maxFreq) with a fixed step. An empty effective grid
// (minFreq >= maxFreq) is a configuration error.
func NewGrid(minFreq, maxFreq, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, NewConfigError("grid step must be positive, got %g", step)
	}
	if minFreq >= maxFreq {
		return nil, NewConfigError("empty frequency grid: min %g >= max %g", minFreq, maxFreq)
	}

	n := int((maxFreq - minFreq) / step)
	if minFreq+float64(n)*step < maxFreq {
		n++
	}

	grid := make([]float64, n)
	for i := range grid {
		grid[i] = minFreq + float64(i)*step
	}
	return grid, nil
}

// AccumulateInto linearly interpolates a local spectrum onto the
// global grid and adds it into the accumulator in place. Samples of
// the global grid outside the local domain receive no contribution,
// so accumulation over many lines is pure addition and order
// independent.
func AccumulateInto(acc, grid, localGrid, local []float64) error {
	if len(acc) != len(grid) {
		return NewComputeError("accumulator length %d does not match grid length %d", len(acc), len(grid))
	}
	if len(localGrid) != len(local) {
		return NewComputeError("local grid length %d does not match local spectrum length %d",
			len(localGrid), len(local))
	}
	if len(localGrid) == 0 {
		return nil
	}

	lo, hi := localGrid[0], localGrid[len(localGrid)-1]

	j := 0
	for i, f := range grid {
		if f < lo || f > hi {
			continue
		}

		// Advance to the segment [localGrid[j], localGrid[j+1]]
		// containing f. Both grids are increasing, so j never moves
		// backwards.
		for j < len(localGrid)-1 && localGrid[j+1] < f {
			j++
		}

		if f <= localGrid[j] || j == len(localGrid)-1 {
			acc[i] += local[j]
			continue
		}

		t := (f - localGrid[j]) / (localGrid[j+1] - localGrid[j])
		acc[i] += local[j] + t*(local[j+1]-local[j])
	}
	return nil
}
