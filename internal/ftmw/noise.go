package ftmw

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Base standard deviation of the instrument noise on the main
	// signal and on the cavity-mode response, for a single
	// acquisition cycle. Averaging N cycles scales both by 1/sqrt(N).
	signalNoiseBase = 0.05
	cavityNoiseBase = 0.01
)

// WithSeed makes the injector deterministic: the same seed yields the
// same noise sequence on every run.
func WithSeed(seed uint64) func(*NoiseInjector) {
	return func(n *NoiseInjector) {
		n.src = rand.NewSource(seed)
	}
}

// WithBaseLevels overrides the single-cycle noise levels of the
// signal and the cavity-mode response. Zero levels disable noise
// entirely.
func WithBaseLevels(signal, cavity float64) func(*NoiseInjector) {
	return func(n *NoiseInjector) {
		n.signalBase = signal
		n.cavityBase = cavity
	}
}

// NoiseInjector adds calibrated white Gaussian noise to spectra. Each
// injector owns its generator, so concurrent acquisitions with their
// own injectors never share random state.
type NoiseInjector struct {
	src        rand.Source
	signalBase float64
	cavityBase float64
}

// NewNoiseInjector creates an injector seeded from system entropy
// unless WithSeed is given.
func NewNoiseInjector(options ...func(*NoiseInjector)) *NoiseInjector {
	n := NoiseInjector{
		signalBase: signalNoiseBase,
		cavityBase: cavityNoiseBase,
	}
	for _, option := range options {
		option(&n)
	}
	if n.src == nil {
		n.src = rand.NewSource(entropySeed())
	}
	return &n
}

// AddWhiteNoise adds zero-mean Gaussian noise with standard deviation
// base/sqrt(numCycles) to every sample in place. The cavityMode flag
// selects the cavity-response noise level instead of the signal one.
func (n *NoiseInjector) AddWhiteNoise(values []float64, numCycles int, cavityMode bool) error {
	if numCycles <= 0 {
		return NewConfigError("numCyclesPerStep must be positive, got %d", numCycles)
	}

	base := n.signalBase
	if cavityMode {
		base = n.cavityBase
	}
	if base == 0 {
		return nil
	}

	dist := distuv.Normal{
		Mu:    0,
		Sigma: base / math.Sqrt(float64(numCycles)),
		Src:   n.src,
	}
	for i := range values {
		values[i] += dist.Rand()
	}
	return nil
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it does,
		// there is no sane fallback for a noise source.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}
