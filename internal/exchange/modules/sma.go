package modules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/backtest-exchange/internal/exchange"
)

// SMA tracks a simple moving average of tick mid-price, adapted from
// pkg/indicator.SMA with Update(bar) replaced by Process(tick, now).
type SMA struct {
	period int
	values []decimal.Decimal
	sum    decimal.Decimal
}

// NewSMA returns an SMA SimulationModule with the given period.
func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{period: period, values: make([]decimal.Decimal, 0, period)}
}

// Process implements exchange.SimulationModule.
func (s *SMA) Process(tick exchange.QuoteTick, now time.Time) {
	mid := tick.Bid.Add(tick.Ask).Div(decimal.NewFromInt(2))
	s.values = append(s.values, mid)
	s.sum = s.sum.Add(mid)
	if len(s.values) > s.period {
		s.sum = s.sum.Sub(s.values[0])
		s.values = s.values[1:]
	}
}

// Current returns the current SMA value, or zero if the window is not yet full.
func (s *SMA) Current() decimal.Decimal {
	if len(s.values) < s.period {
		return decimal.Zero
	}
	return s.sum.Div(decimal.NewFromInt(int64(s.period)))
}

// Ready reports whether enough ticks have been collected to fill the window.
func (s *SMA) Ready() bool { return len(s.values) >= s.period }

// Reset implements exchange.SimulationModule.
func (s *SMA) Reset() {
	s.values = s.values[:0]
	s.sum = decimal.Zero
}

var _ exchange.SimulationModule = (*SMA)(nil)
