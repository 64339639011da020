package exchange

import "github.com/shopspring/decimal"

// Position is the external, read-only view of a position the core resolves
// fills against. It is owned and mutated by the execution cache, never by
// the exchange core.
type Position interface {
	PositionID() string
	EntrySide() Side
	IsClosed() bool
	AvgOpenPrice() decimal.Decimal
	CalculatePnL(avgOpen, avgClose, quantity decimal.Decimal) decimal.Decimal
}

// ExecutionCache is the external, read-only lookup of orders and positions
// by id. The core never mutates anything it returns.
type ExecutionCache interface {
	Position(id string) (Position, bool)
	Order(id string) (*Order, bool)
}
