package exchange

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// eventHeader carries the fields every lifecycle event shares: a fresh
// correlation id plus event time and submission time, both equal to the
// current clock value in this simulation — there is no real-time clock.
type eventHeader struct {
	EventID      uuid.UUID
	EventTime    time.Time
	SubmitTime   time.Time
	AccountID    string
}

// OrderSubmitted is emitted as soon as a command accepts an order for
// processing, before any validation.
type OrderSubmitted struct {
	eventHeader
	ClOrdID string
	Symbol  Symbol
}

// OrderAccepted is emitted when an order passes validation and is assigned
// a venue order id.
type OrderAccepted struct {
	eventHeader
	ClOrdID string
	OrderID string
	Symbol  Symbol
}

// OrderRejected is emitted for order-rule violations (size bounds, no
// market, post-only crossing, wrong-side stop).
type OrderRejected struct {
	eventHeader
	ClOrdID string
	Reason  string
}

// OrderWorking is emitted when an accepted order is inserted into the
// working-order book.
type OrderWorking struct {
	eventHeader
	ClOrdID string
	OrderID string
}

// OrderModified is emitted when a working order's price/quantity changes
// without a state transition.
type OrderModified struct {
	eventHeader
	ClOrdID  string
	OrderID  string
	Price    *decimal.Decimal
	Quantity decimal.Decimal
}

// OrderCancelled is emitted when a working order is removed by explicit
// cancel, OCO cascade, or cancellation of a closed position's remaining
// protective orders.
type OrderCancelled struct {
	eventHeader
	ClOrdID string
	OrderID string
}

// OrderCancelReject is emitted when a cancel or modify command targets an
// order that is not (or no longer) working, and when a modify of a working
// order is refused (zero quantity, no market, post-only crossing, or a stop
// price on the wrong side).
type OrderCancelReject struct {
	eventHeader
	ClOrdID  string
	Response string
	Reason   string
}

// OrderExpired is emitted when a working order's ExpireTime has passed.
type OrderExpired struct {
	eventHeader
	ClOrdID string
	OrderID string
}

// OrderFilled carries the full fill pipeline output: identifiers, fill
// economics, and the settlement/commission currency context needed to
// book it against the account.
type OrderFilled struct {
	eventHeader
	ClOrdID            string
	OrderID            string
	ExecutionID        string
	PositionID         string
	StrategyID         string // always empty placeholder; no strategy layer in the core
	Symbol             Symbol
	Side               Side
	FilledQty          decimal.Decimal
	LeavesQty          decimal.Decimal
	FillPrice          decimal.Decimal
	QuoteCurrency      string
	SettlementCurrency string
	IsInverse          bool
	Commission         decimal.Decimal
	CommissionCurrency string
	Liquidity          LiquiditySide
}

// AccountState is emitted after every fill (also when the account is
// frozen and nothing changed), and once each on RegisterClient and Reset,
// reflecting the account's current bookkeeping.
type AccountState struct {
	eventHeader
	Currency          string
	Balance           decimal.Decimal
	BalanceStartDay   decimal.Decimal
	BalanceActivityDay decimal.Decimal
	TotalCommissions  decimal.Decimal
	MarginBalance     decimal.Decimal
	MarginAvailable   decimal.Decimal
}

// ExecutionClient is the external sink events are forwarded to, plus the
// account id provider. It is registered exactly once.
type ExecutionClient interface {
	AccountID() string

	OnOrderSubmitted(OrderSubmitted)
	OnOrderAccepted(OrderAccepted)
	OnOrderRejected(OrderRejected)
	OnOrderWorking(OrderWorking)
	OnOrderModified(OrderModified)
	OnOrderCancelled(OrderCancelled)
	OnOrderCancelReject(OrderCancelReject)
	OnOrderExpired(OrderExpired)
	OnOrderFilled(OrderFilled)
	OnAccountState(AccountState)
}

// emitter stamps and forwards lifecycle events to the registered client. A
// nil client/clock would be a construction bug, not a runtime condition, so
// emitter never defends against nil — the caller (Exchange) guarantees both
// are set before any command runs.
type emitter struct {
	client ExecutionClient
	clock  Clock
}

func newEmitter(client ExecutionClient, clock Clock) *emitter {
	return &emitter{client: client, clock: clock}
}

func (e *emitter) header() eventHeader {
	now := e.clock.Now()
	return eventHeader{
		EventID:    uuid.New(),
		EventTime:  now,
		SubmitTime: now,
		AccountID:  e.client.AccountID(),
	}
}

func (e *emitter) submitted(clOrdID string, sym Symbol) {
	e.client.OnOrderSubmitted(OrderSubmitted{eventHeader: e.header(), ClOrdID: clOrdID, Symbol: sym})
}

func (e *emitter) accepted(clOrdID, orderID string, sym Symbol) {
	e.client.OnOrderAccepted(OrderAccepted{eventHeader: e.header(), ClOrdID: clOrdID, OrderID: orderID, Symbol: sym})
}

func (e *emitter) rejected(clOrdID, reason string) {
	e.client.OnOrderRejected(OrderRejected{eventHeader: e.header(), ClOrdID: clOrdID, Reason: reason})
}

func (e *emitter) working(clOrdID, orderID string) {
	e.client.OnOrderWorking(OrderWorking{eventHeader: e.header(), ClOrdID: clOrdID, OrderID: orderID})
}

func (e *emitter) modified(clOrdID, orderID string, price *decimal.Decimal, qty decimal.Decimal) {
	e.client.OnOrderModified(OrderModified{eventHeader: e.header(), ClOrdID: clOrdID, OrderID: orderID, Price: price, Quantity: qty})
}

func (e *emitter) cancelled(clOrdID, orderID string) {
	e.client.OnOrderCancelled(OrderCancelled{eventHeader: e.header(), ClOrdID: clOrdID, OrderID: orderID})
}

func (e *emitter) cancelReject(clOrdID, response, reason string) {
	e.client.OnOrderCancelReject(OrderCancelReject{eventHeader: e.header(), ClOrdID: clOrdID, Response: response, Reason: reason})
}

func (e *emitter) expired(clOrdID, orderID string) {
	e.client.OnOrderExpired(OrderExpired{eventHeader: e.header(), ClOrdID: clOrdID, OrderID: orderID})
}

func (e *emitter) filled(f OrderFilled) {
	f.eventHeader = e.header()
	e.client.OnOrderFilled(f)
}

func (e *emitter) accountState(a AccountState) {
	a.eventHeader = e.header()
	e.client.OnAccountState(a)
}
