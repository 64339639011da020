package modules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/backtest-exchange/internal/exchange"
)

// StdDev tracks the population standard deviation of tick mid-price,
// adapted from pkg/indicator.StdDev with Update(bar) replaced by
// Process(tick, now). The sqrt helper is Newton's method, since
// shopspring/decimal has no native sqrt.
type StdDev struct {
	period int
	values []decimal.Decimal
	sma    *SMA
}

// NewStdDev returns a StdDev SimulationModule with the given period.
func NewStdDev(period int) *StdDev {
	if period < 1 {
		period = 1
	}
	return &StdDev{period: period, values: make([]decimal.Decimal, 0, period), sma: NewSMA(period)}
}

// Process implements exchange.SimulationModule.
func (s *StdDev) Process(tick exchange.QuoteTick, now time.Time) {
	mid := tick.Bid.Add(tick.Ask).Div(decimal.NewFromInt(2))
	s.values = append(s.values, mid)
	s.sma.Process(tick, now)
	if len(s.values) > s.period {
		s.values = s.values[1:]
	}
}

// Current returns the current standard deviation, or zero if the window is
// not yet full.
func (s *StdDev) Current() decimal.Decimal {
	if len(s.values) < s.period {
		return decimal.Zero
	}
	return s.calculate(s.sma.Current())
}

// Ready reports whether enough ticks have been collected to fill the window.
func (s *StdDev) Ready() bool { return len(s.values) >= s.period }

// Reset implements exchange.SimulationModule.
func (s *StdDev) Reset() {
	s.values = s.values[:0]
	s.sma.Reset()
}

func (s *StdDev) calculate(mean decimal.Decimal) decimal.Decimal {
	if len(s.values) == 0 {
		return decimal.Zero
	}
	var sumSquares decimal.Decimal
	for _, v := range s.values {
		diff := v.Sub(mean)
		sumSquares = sumSquares.Add(diff.Mul(diff))
	}
	variance := sumSquares.Div(decimal.NewFromInt(int64(len(s.values))))
	return sqrt(variance)
}

// sqrt computes the square root of a decimal via Newton's method.
func sqrt(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() || d.IsNegative() {
		return decimal.Zero
	}
	guess := d.Div(decimal.NewFromInt(2))
	if guess.IsZero() {
		guess = decimal.NewFromInt(1)
	}
	two := decimal.NewFromInt(2)
	epsilon := decimal.RequireFromString("0.00000001")
	for i := 0; i < 100; i++ {
		newGuess := guess.Add(d.Div(guess)).Div(two)
		diff := newGuess.Sub(guess).Abs()
		if diff.LessThan(epsilon) {
			return newGuess.Round(8)
		}
		guess = newGuess
	}
	return guess.Round(8)
}

var _ exchange.SimulationModule = (*StdDev)(nil)
