package exchange

import "github.com/shopspring/decimal"

// account is the in-memory balance state. Adapted from
// internal/risk/highwater.go's peak/current bookkeeping struct, generalized
// from "track the running equity peak" to "track day-start/day-activity
// balances" — the exchange core has no drawdown concept of its own, but the
// same small-struct-of-decimals-with-plain-methods shape fits the account
// data model directly. Unlike highwater.go, this carries no mutex: the
// exchange core is single-threaded and synchronous, so highwater.go's
// sync.RWMutex is deliberately not carried over.
type account struct {
	currency           string
	balance            decimal.Decimal
	balanceStartDay    decimal.Decimal
	balanceActivityDay decimal.Decimal
	totalCommissions   decimal.Decimal
	frozen             bool
}

func newAccount(cfg Config) *account {
	return &account{
		currency:           cfg.AccountCurrency,
		balance:            cfg.StartingCapital,
		balanceStartDay:    cfg.StartingCapital,
		balanceActivityDay: decimal.Zero,
		totalCommissions:   decimal.Zero,
		frozen:             cfg.FrozenAccount,
	}
}

// rolloverDay sets the start-of-day balance to the current balance and
// zeroes the day's activity. Nothing in the package calls it, and it is
// not exported: neither Exchange nor any other exported type offers a way
// for a driver to roll the day over.
func (a *account) rolloverDay() {
	a.balanceStartDay = a.balance
	a.balanceActivityDay = decimal.Zero
}

func (a *account) snapshot() AccountState {
	return AccountState{
		Currency:           a.currency,
		Balance:            a.balance,
		BalanceStartDay:    a.balanceStartDay,
		BalanceActivityDay: a.balanceActivityDay,
		TotalCommissions:   a.totalCommissions,
		MarginBalance:      decimal.Zero,
		MarginAvailable:    a.balance,
	}
}

// applyFill books a single fill event: realized PnL against the resolved
// position (if any), converted to the account currency when the
// commission currency differs, minus commission. If the account is
// frozen, balances never change, but applyFill still returns a snapshot
// so the caller can emit AccountState with the unchanged balance.
//
// pos may be nil when no existing position is resolved for the fill (a
// fresh position was just opened and carries no realized PnL yet).
func (a *account) applyFill(f OrderFilled, pos Position, avgOpen decimal.Decimal, xrates *crossRateCache, calc RateCalculator) AccountState {
	if a.frozen {
		return a.snapshot()
	}

	commission := f.Commission
	pnl := decimal.Zero

	if pos != nil && f.Side != pos.EntrySide() {
		pnl = pos.CalculatePnL(avgOpen, f.FillPrice, f.FilledQty)
	}

	if f.CommissionCurrency != a.currency {
		priceType := PriceTypeAsk
		if f.Side == SideSell {
			priceType = PriceTypeBid
		}
		xrate, err := xrates.rate(calc, f.CommissionCurrency, a.currency, priceType)
		if err == nil {
			commission = commission.Mul(xrate)
			pnl = pnl.Mul(xrate)
		}
	}

	pnl = pnl.Sub(commission)

	a.totalCommissions = a.totalCommissions.Add(commission)
	a.balance = a.balance.Add(pnl)
	a.balanceActivityDay = a.balanceActivityDay.Add(pnl)

	return a.snapshot()
}

func (a *account) reset(cfg Config) {
	a.currency = cfg.AccountCurrency
	a.balance = cfg.StartingCapital
	a.balanceStartDay = cfg.StartingCapital
	a.balanceActivityDay = decimal.Zero
	a.totalCommissions = decimal.Zero
	a.frozen = cfg.FrozenAccount
}
