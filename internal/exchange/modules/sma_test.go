package modules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// Ticks with bid==ask so mid-price equals a plain value, matching
// pkg/indicator's single-value SMA fixtures directly.
func flatTick(v string) (string, string) { return v, v }

func TestSMA_Basic(t *testing.T) {
	sma := NewSMA(3)
	if sma.Ready() {
		t.Error("SMA should not be ready with no data")
	}

	sma.Process(qt(flatTick("10")), time.Time{})
	sma.Process(qt(flatTick("20")), time.Time{})
	sma.Process(qt(flatTick("30")), time.Time{})

	if !sma.Ready() {
		t.Error("SMA should be ready after 3 ticks")
	}
	want := decimal.NewFromInt(20)
	if !sma.Current().Equal(want) {
		t.Errorf("SMA = %s, want %s", sma.Current(), want)
	}
}

func TestSMA_Rolling(t *testing.T) {
	sma := NewSMA(3)
	sma.Process(qt(flatTick("10")), time.Time{})
	sma.Process(qt(flatTick("20")), time.Time{})
	sma.Process(qt(flatTick("30")), time.Time{})
	sma.Process(qt(flatTick("40")), time.Time{})

	want := decimal.NewFromInt(30) // window is now [20, 30, 40]
	if !sma.Current().Equal(want) {
		t.Errorf("SMA = %s, want %s", sma.Current(), want)
	}
}

func TestSMA_NotReady(t *testing.T) {
	sma := NewSMA(5)
	sma.Process(qt(flatTick("10")), time.Time{})
	sma.Process(qt(flatTick("20")), time.Time{})
	sma.Process(qt(flatTick("30")), time.Time{})

	if !sma.Current().IsZero() {
		t.Errorf("SMA should be zero when not ready, got %s", sma.Current())
	}
}

func TestSMA_Reset(t *testing.T) {
	sma := NewSMA(3)
	sma.Process(qt(flatTick("10")), time.Time{})
	sma.Process(qt(flatTick("20")), time.Time{})
	sma.Process(qt(flatTick("30")), time.Time{})

	sma.Reset()

	if sma.Ready() {
		t.Error("SMA should not be ready after reset")
	}
}
