package exchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// capturingClient is the test ExecutionClient double: it records every
// emitted event into ordered slices so assertions can check both content
// and ordering, matching the plain-testing-package house style of
// internal/engine/engine_test.go's mockStrategy and internal/risk's
// fixtures, rather than a mocking framework.
type capturingClient struct {
	accountID string

	submitted      []OrderSubmitted
	accepted       []OrderAccepted
	rejected       []OrderRejected
	working        []OrderWorking
	modified       []OrderModified
	cancelled      []OrderCancelled
	cancelRejected []OrderCancelReject
	expired        []OrderExpired
	filled         []OrderFilled
	accountStates  []AccountState
}

func newCapturingClient() *capturingClient {
	return &capturingClient{accountID: "ACC-001"}
}

func (c *capturingClient) AccountID() string { return c.accountID }

func (c *capturingClient) OnOrderSubmitted(e OrderSubmitted)         { c.submitted = append(c.submitted, e) }
func (c *capturingClient) OnOrderAccepted(e OrderAccepted)           { c.accepted = append(c.accepted, e) }
func (c *capturingClient) OnOrderRejected(e OrderRejected)           { c.rejected = append(c.rejected, e) }
func (c *capturingClient) OnOrderWorking(e OrderWorking)             { c.working = append(c.working, e) }
func (c *capturingClient) OnOrderModified(e OrderModified)           { c.modified = append(c.modified, e) }
func (c *capturingClient) OnOrderCancelled(e OrderCancelled)         { c.cancelled = append(c.cancelled, e) }
func (c *capturingClient) OnOrderCancelReject(e OrderCancelReject)   { c.cancelRejected = append(c.cancelRejected, e) }
func (c *capturingClient) OnOrderExpired(e OrderExpired)             { c.expired = append(c.expired, e) }
func (c *capturingClient) OnOrderFilled(e OrderFilled)               { c.filled = append(c.filled, e) }
func (c *capturingClient) OnAccountState(e AccountState)             { c.accountStates = append(c.accountStates, e) }

// stubPosition is the test Position double.
type stubPosition struct {
	id        string
	entrySide Side
	avgOpen   decimal.Decimal
	closed    bool
}

func (p *stubPosition) PositionID() string         { return p.id }
func (p *stubPosition) EntrySide() Side            { return p.entrySide }
func (p *stubPosition) IsClosed() bool             { return p.closed }
func (p *stubPosition) AvgOpenPrice() decimal.Decimal { return p.avgOpen }

func (p *stubPosition) CalculatePnL(avgOpen, avgClose, quantity decimal.Decimal) decimal.Decimal {
	diff := avgClose.Sub(avgOpen)
	if p.entrySide == SideSell {
		diff = diff.Neg()
	}
	return diff.Mul(quantity)
}

// stubCache is the test ExecutionCache double: a plain map the test
// controls directly, standing in for the external, read-only cache.
type stubCache struct {
	positions map[string]Position
}

func newStubCache() *stubCache { return &stubCache{positions: make(map[string]Position)} }

func (c *stubCache) Position(id string) (Position, bool) {
	p, ok := c.positions[id]
	return p, ok
}

func (c *stubCache) Order(id string) (*Order, bool) { return nil, false }

func sym(code string) Symbol { return Symbol{Code: code} }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

// newTestExchange wires an Exchange with a FX-like EURUSD instrument
// (tick_size = 0.0001), a manual clock starting at t0, and a deterministic
// FillModel. startingCapital defaults to 100_000 USD unless cfg overrides it.
func newTestExchange(t *testing.T, cfg Config, fm FillModel) (*Exchange, *capturingClient, time.Time) {
	t.Helper()
	t0 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := NewManualClock(t0)
	ex := New(cfg, clock, fm, nil)
	ex.RegisterInstrument(Instrument{
		Symbol:             sym("EURUSD"),
		TickSize:           dec("0.0001"),
		QuoteCurrency:      cfg.AccountCurrency,
		SettlementCurrency: cfg.AccountCurrency,
		CommissionRate:     decimal.Zero,
	})
	client := newCapturingClient()
	ex.RegisterClient(client)
	return ex, client, t0
}

func tick(t time.Time, bid, ask string) QuoteTick {
	return QuoteTick{Symbol: sym("EURUSD"), Bid: dec(bid), Ask: dec(ask), Timestamp: t}
}
