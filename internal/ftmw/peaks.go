package ftmw

import (
	"fmt"
	"math"
	"sort"

	"github.com/RastonLab/Virtual-FTMW-Functions/internal/spectrum"
)

// FindPeaks locates local maxima in a spectrum. A sample is a
// candidate when it is strictly greater than both neighbors and at
// least threshold high. Candidates closer than minDistance indices
// are thinned by non-maximum suppression: the higher one wins, and
// for exactly equal intensities the lower index wins.
//
// Mismatched slice lengths or non-finite values are a ComputeError.
// Peaks are returned in grid order.
func FindPeaks(freqs, intensities []float64, threshold float64, minDistance int) ([]spectrum.Peak, error) {
	if len(freqs) != len(intensities) {
		return nil, NewComputeError("frequency array length %d does not match intensity array length %d",
			len(freqs), len(intensities))
	}
	if minDistance < 1 {
		minDistance = 1
	}

	for i := range freqs {
		if math.IsNaN(freqs[i]) || math.IsInf(freqs[i], 0) {
			return nil, NewComputeError("non-finite frequency at index %d", i)
		}
		if math.IsNaN(intensities[i]) || math.IsInf(intensities[i], 0) {
			return nil, NewComputeError("non-finite intensity at index %d", i)
		}
	}

	var candidates []int
	for i := 1; i < len(intensities)-1; i++ {
		y := intensities[i]
		if y > intensities[i-1] && y > intensities[i+1] && y >= threshold {
			candidates = append(candidates, i)
		}
	}

	// Suppress from the highest candidate down, so a tall peak
	// shadows every lower neighbor within minDistance. Equal heights
	// are visited lower index first, which makes the tie-break
	// deterministic.
	order := make([]int, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(a, b int) bool {
		if intensities[order[a]] != intensities[order[b]] {
			return intensities[order[a]] > intensities[order[b]]
		}
		return order[a] < order[b]
	})

	suppressed := make(map[int]bool, len(candidates))
	var kept []int
	for _, idx := range order {
		if suppressed[idx] {
			continue
		}
		kept = append(kept, idx)
		for _, other := range candidates {
			if other != idx && abs(other-idx) < minDistance {
				suppressed[other] = true
			}
		}
	}
	sort.Ints(kept)

	peaks := make([]spectrum.Peak, len(kept))
	for i, idx := range kept {
		peaks[i] = spectrum.Peak{
			Index:     idx,
			Frequency: freqs[idx],
			Intensity: intensities[idx],
		}
	}
	return peaks, nil
}

// PeakMap renders peaks as a frequency → intensity mapping with both
// values rounded to four decimal places, the caller-facing result
// format of peak detection.
func PeakMap(peaks []spectrum.Peak) map[string]string {
	m := make(map[string]string, len(peaks))
	for _, p := range peaks {
		m[fmt.Sprintf("%.4f", p.Frequency)] = fmt.Sprintf("%.4f", p.Intensity)
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
