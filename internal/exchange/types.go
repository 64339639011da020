// Package exchange implements the matching and lifecycle engine for a
// simulated exchange: a single-threaded, tick-driven state machine that
// accepts order commands, matches them against quote ticks, maintains
// bracket/OCO linkage, and mutates a simulated account.
package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// Symbol identifies a tradable instrument.
type Symbol struct {
	Code string
}

func (s Symbol) String() string { return s.Code }

// Side is the direction of an order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "SELL"
	}
	return "BUY"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType selects the matching rule applied to a working order.
type OrderType int

const (
	OrderTypeMarket OrderType = iota
	OrderTypeLimit
	OrderTypeStopMarket
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeMarket:
		return "MARKET"
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypeStopMarket:
		return "STOP_MARKET"
	default:
		return "UNKNOWN"
	}
}

// TimeInForce controls how long an order rests before expiry.
type TimeInForce int

const (
	TimeInForceGTC TimeInForce = iota // good till cancelled
	TimeInForceGTD                    // good till ExpireTime
)

// OrderState is the order lifecycle phase.
type OrderState int

const (
	OrderStateInitialized OrderState = iota
	OrderStateSubmitted
	OrderStateAccepted
	OrderStateWorking
	OrderStateFilled
	OrderStateCancelled
	OrderStateRejected
	OrderStateExpired
)

func (s OrderState) String() string {
	switch s {
	case OrderStateInitialized:
		return "INITIALIZED"
	case OrderStateSubmitted:
		return "SUBMITTED"
	case OrderStateAccepted:
		return "ACCEPTED"
	case OrderStateWorking:
		return "WORKING"
	case OrderStateFilled:
		return "FILLED"
	case OrderStateCancelled:
		return "CANCELLED"
	case OrderStateRejected:
		return "REJECTED"
	case OrderStateExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}

// IsFinal reports whether the state is terminal for the order.
func (s OrderState) IsFinal() bool {
	switch s {
	case OrderStateFilled, OrderStateCancelled, OrderStateRejected, OrderStateExpired:
		return true
	default:
		return false
	}
}

// LiquiditySide describes whether a fill added or removed resting liquidity.
type LiquiditySide int

const (
	LiquidityMaker LiquiditySide = iota
	LiquidityTaker
)

func (l LiquiditySide) String() string {
	if l == LiquidityTaker {
		return "TAKER"
	}
	return "MAKER"
}

// PriceType selects which side of the market a cross-rate lookup uses.
type PriceType int

const (
	PriceTypeBid PriceType = iota
	PriceTypeAsk
)

// Order is a single client order tracked by the exchange core.
type Order struct {
	ClOrdID     string
	ID          string // venue order id, assigned on accept
	Symbol      Symbol
	Side        Side
	Type        OrderType
	Quantity    decimal.Decimal
	Price       *decimal.Decimal // absent for MARKET
	TimeInForce TimeInForce
	ExpireTime  *time.Time
	IsPostOnly  bool
	State       OrderState
}

// Clone returns a shallow copy safe to mutate independently of the order
// stored in the working-order table.
func (o *Order) Clone() *Order {
	c := *o
	if o.Price != nil {
		p := *o.Price
		c.Price = &p
	}
	if o.ExpireTime != nil {
		t := *o.ExpireTime
		c.ExpireTime = &t
	}
	return &c
}

// Instrument is a catalog entry describing a tradable symbol's contract
// terms and commission schedule.
type Instrument struct {
	Symbol             Symbol
	TickSize           decimal.Decimal
	MinQuantity        *decimal.Decimal
	MaxQuantity        *decimal.Decimal
	QuoteCurrency      string
	SettlementCurrency string
	IsInverse          bool

	// CommissionRate is the per-unit-notional commission rate applied by
	// CalculateCommission (maker and taker share the same rate; the core
	// does not model maker rebates).
	CommissionRate decimal.Decimal
}

// CalculateCommission computes the commission owed for a fill, expressed
// in the instrument's quote currency and scaled by xrate (quanto hook,
// always 1 unless a settlement-currency conversion is supplied).
func (i Instrument) CalculateCommission(qty, price decimal.Decimal, liquidity LiquiditySide, xrate decimal.Decimal) decimal.Decimal {
	notional := qty.Mul(price)
	return notional.Mul(i.CommissionRate).Mul(xrate)
}

// QuoteTick is a top-of-book quote update.
type QuoteTick struct {
	Symbol    Symbol
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	Timestamp time.Time
}

// OMSType is retained for consumer behavior; the core never interprets it.
type OMSType int

const (
	OMSTypeNetting OMSType = iota
	OMSTypeHedging
)
