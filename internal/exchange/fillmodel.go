package exchange

import "math/rand"

// FillModel is the three-oracle capability backing probabilistic
// fill/slippage decisions. Injected at construction; tests substitute a
// deterministic stub instead of RandomFillModel.
type FillModel interface {
	// IsStopFilled decides whether a STOP_MARKET order fills when the
	// market touches its trigger price exactly (strict crossing always
	// fills regardless of this oracle).
	IsStopFilled() bool

	// IsLimitFilled decides whether a LIMIT order fills when the market
	// touches its price exactly.
	IsLimitFilled() bool

	// IsSlipped decides whether a MARKET or triggered STOP_MARKET order's
	// fill price is shifted by one tick in the adverse direction.
	IsSlipped() bool
}

// RandomFillModel is the default probabilistic FillModel, grounded on the
// pack's convention of plain math/rand for simulation randomness (no
// example repo reaches for a third-party PRNG for this kind of thing).
type RandomFillModel struct {
	rng *rand.Rand

	probStopFilled  float64
	probLimitFilled float64
	probSlipped     float64
}

// NewRandomFillModel returns a RandomFillModel seeded from seed, with the
// given per-oracle fill/slip probabilities (each in [0, 1]).
func NewRandomFillModel(seed int64, probStopFilled, probLimitFilled, probSlipped float64) *RandomFillModel {
	return &RandomFillModel{
		rng:             rand.New(rand.NewSource(seed)),
		probStopFilled:  probStopFilled,
		probLimitFilled: probLimitFilled,
		probSlipped:     probSlipped,
	}
}

func (m *RandomFillModel) IsStopFilled() bool  { return m.rng.Float64() < m.probStopFilled }
func (m *RandomFillModel) IsLimitFilled() bool { return m.rng.Float64() < m.probLimitFilled }
func (m *RandomFillModel) IsSlipped() bool     { return m.rng.Float64() < m.probSlipped }

// StubFillModel is a deterministic FillModel for tests: every oracle
// returns the fixed value it was constructed with.
type StubFillModel struct {
	StopFilled  bool
	LimitFilled bool
	Slipped     bool
}

func (m StubFillModel) IsStopFilled() bool  { return m.StopFilled }
func (m StubFillModel) IsLimitFilled() bool { return m.LimitFilled }
func (m StubFillModel) IsSlipped() bool     { return m.Slipped }
