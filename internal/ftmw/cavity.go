package ftmw

import "math"

// CavityResponse builds the resonance transfer function of the
// Fabry-Perot cavity on the given grid.
//
// In single mode the response is one Lorentzian centered at vres with
// half width γ/2 = vres/(2Q) and peak amplitude pmax:
//
//	R(f) = pmax · (γ/2)² / ((f − vres)² + (γ/2)²)
//
// In range mode the cavity is retuned in steps of StepSize across
// [frequencyMin, frequencyMax] and the response is the superposition
// of one such Lorentzian per step, each with γ = center/Q. Mode count
// is floor((max−min)/step)+1 and overlapping tails simply add up.
func CavityResponse(grid []float64, p *AcquisitionParams, q, pmax float64) ([]float64, error) {
	if q <= 0 {
		return nil, NewConfigError("cavity Q must be positive, got %g", q)
	}

	var centers []float64
	switch p.AcquisitionType {
	case AcquisitionSingle:
		centers = []float64{p.VRes}

	case AcquisitionRange:
		n := int(math.Floor((p.FrequencyMax-p.FrequencyMin)/p.StepSize)) + 1
		centers = make([]float64, n)
		for i := range centers {
			centers[i] = p.FrequencyMin + float64(i)*p.StepSize
		}

	default:
		return nil, NewConfigError("unknown acquisitionType '%s'", p.AcquisitionType)
	}

	response := make([]float64, len(grid))
	for _, center := range centers {
		hw := center / (2 * q)
		for i, f := range grid {
			d := f - center
			response[i] += pmax * hw * hw / (d*d + hw*hw)
		}
	}
	return response, nil
}
