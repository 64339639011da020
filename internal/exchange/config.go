package exchange

import "github.com/shopspring/decimal"

// Config carries the exchange's construction-time settings. It is a plain
// struct: CLI/file loading is the driver's responsibility, not the
// core's.
type Config struct {
	// StartingCapital is the account's opening balance.
	StartingCapital decimal.Decimal

	// AccountCurrency is the currency all balances and PnL are booked in.
	AccountCurrency string

	// FrozenAccount disables all balance mutation when true; fills still
	// emit OrderFilled and AccountState, but balance never changes.
	FrozenAccount bool

	// OMSType is retained for consumer behavior; the core never interprets it.
	OMSType OMSType

	// GeneratePositionIDs is a retained hook; the core always generates
	// position ids on demand regardless of this flag's value.
	GeneratePositionIDs bool
}

// DefaultConfig returns a Config with conservative defaults suitable for
// tests and examples.
func DefaultConfig() Config {
	return Config{
		StartingCapital:     decimal.NewFromInt(100_000),
		AccountCurrency:     "USD",
		FrozenAccount:       false,
		OMSType:             OMSTypeNetting,
		GeneratePositionIDs: true,
	}
}
