// Package modules provides example exchange.SimulationModule
// implementations, adapted from pkg/indicator's rolling-window
// calculators. Each module consumes QuoteTick mid-price instead of an OHLCV
// bar: the tick's ask/bid stand in for the bar's high/low, and the midpoint
// stands in for the bar's close.
package modules

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tathienbao/backtest-exchange/internal/exchange"
)

// ATR tracks the average true range as the plain mean of the true ranges
// of the last period ticks (no Wilder smoothing), registered as a
// SimulationModule so a driver can read volatility alongside the
// exchange's own matching decisions. Math is unchanged from
// pkg/indicator.ATR; only the input shape changes.
type ATR struct {
	period    int
	prevClose decimal.Decimal
	trValues  []decimal.Decimal
	sum       decimal.Decimal
	count     int
}

// NewATR returns an ATR SimulationModule with the given period.
func NewATR(period int) *ATR {
	if period < 1 {
		period = 1
	}
	return &ATR{period: period, trValues: make([]decimal.Decimal, 0, period)}
}

// Process implements exchange.SimulationModule.
func (a *ATR) Process(tick exchange.QuoteTick, now time.Time) {
	high, low := tick.Ask, tick.Bid
	mid := tick.Bid.Add(tick.Ask).Div(decimal.NewFromInt(2))

	var tr decimal.Decimal
	if a.count == 0 {
		tr = high.Sub(low)
	} else {
		hl := high.Sub(low)
		hpc := high.Sub(a.prevClose).Abs()
		lpc := low.Sub(a.prevClose).Abs()
		tr = maxDecimal(hl, maxDecimal(hpc, lpc))
	}

	a.prevClose = mid
	a.count++

	a.trValues = append(a.trValues, tr)
	a.sum = a.sum.Add(tr)
	if len(a.trValues) > a.period {
		a.sum = a.sum.Sub(a.trValues[0])
		a.trValues = a.trValues[1:]
	}
}

// Current returns the current ATR value, or zero if the window is not yet full.
func (a *ATR) Current() decimal.Decimal {
	if len(a.trValues) < a.period {
		return decimal.Zero
	}
	return a.sum.Div(decimal.NewFromInt(int64(a.period)))
}

// Ready reports whether enough ticks have been collected to fill the window.
func (a *ATR) Ready() bool { return len(a.trValues) >= a.period }

// Reset implements exchange.SimulationModule.
func (a *ATR) Reset() {
	a.trValues = a.trValues[:0]
	a.sum = decimal.Zero
	a.prevClose = decimal.Zero
	a.count = 0
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

var _ exchange.SimulationModule = (*ATR)(nil)
