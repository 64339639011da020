package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessTick advances the simulated clock to tick.Timestamp, replaces the
// cached market snapshot for tick.Symbol, invokes all registered
// simulation modules with (tick, now), then sweeps a snapshot copy of
// workingOrders to decide fills and expiries.
func (ex *Exchange) ProcessTick(tick QuoteTick) {
	ex.requireClient()
	ex.inTick = true
	defer func() { ex.inTick = false }()

	ex.clock.Advance(tick.Timestamp)
	now := ex.clock.Now()

	ex.market[tick.Symbol.Code] = tick
	instr, hasInstr := ex.instruments[tick.Symbol.Code]
	quoteCurrency := ""
	if hasInstr {
		quoteCurrency = instr.QuoteCurrency
	}
	ex.xrates.update(tick, quoteCurrency)

	for _, m := range ex.modules {
		m.Process(tick, now)
	}

	// Sweep a shallow copy of the working set to permit in-loop removal. A
	// fill that mutates childOrders may introduce new working orders; these
	// are not visited until a subsequent tick.
	snapshot := make([]*Order, 0, len(ex.linked.workingOrders))
	for _, o := range ex.linked.workingOrders {
		snapshot = append(snapshot, o)
	}

	for _, o := range snapshot {
		if o.Symbol.Code != tick.Symbol.Code {
			continue
		}
		// The order may have been removed from workingOrders earlier in
		// this same sweep (e.g. by an OCO cascade triggered by a sibling
		// fill); re-check membership before evaluating it.
		if _, stillWorking := ex.linked.workingOrders[o.ClOrdID]; !stillWorking {
			continue
		}
		if o.State != OrderStateWorking {
			continue
		}

		ex.evaluateWorkingOrder(o, tick, now)
	}
}

func (ex *Exchange) evaluateWorkingOrder(o *Order, tick QuoteTick, now time.Time) {
	fillPrice, liquidity, shouldFill := ex.decideFill(o, tick)
	if shouldFill {
		delete(ex.linked.workingOrders, o.ClOrdID)
		ex.fillOrder(o, fillPrice, liquidity)
		return
	}

	// Expiry is evaluated after fill evaluation, and only if the order is
	// still in workingOrders.
	if o.ExpireTime != nil && !now.Before(*o.ExpireTime) {
		if _, stillWorking := ex.linked.workingOrders[o.ClOrdID]; stillWorking {
			delete(ex.linked.workingOrders, o.ClOrdID)
			o.State = OrderStateExpired
			ex.emit.expired(o.ClOrdID, o.ID)
			// Expiry of a bracket's still-unprocessed leaf cleans the oco
			// pair table entry for it; otherwise the normal OCO cascade
			// applies.
			ex.linked.checkOCO(o.ClOrdID, ex.emit, ex.logger)
		}
	}
}

// decideFill applies the per-type, per-side fill decision table plus
// slippage. Returns shouldFill=false when the order does not meet its
// trigger condition on this tick.
func (ex *Exchange) decideFill(o *Order, tick QuoteTick) (fillPrice decimal.Decimal, liquidity LiquiditySide, shouldFill bool) {
	if o.Price == nil {
		panicInvariant("exchange: working order has no price")
	}
	price := *o.Price

	// A triggered STOP_MARKET fills at its own stop price absent slippage
	// (symmetric with LIMIT's "always execute at the order's own price");
	// slippage then shifts away from that price by one tick_size. The
	// trigger condition still reads the live tick, but the fill price's
	// base is the order's price, not the tick that crossed it.
	switch {
	case o.Side == SideBuy && o.Type == OrderTypeStopMarket:
		if tick.Ask.GreaterThan(price) || (tick.Ask.Equal(price) && ex.fillModel.IsStopFilled()) {
			return ex.stopFillPrice(o, price), LiquidityTaker, true
		}
	case o.Side == SideBuy && o.Type == OrderTypeLimit:
		if tick.Ask.LessThan(price) || (tick.Ask.Equal(price) && ex.fillModel.IsLimitFilled()) {
			return price, LiquidityMaker, true
		}
	case o.Side == SideSell && o.Type == OrderTypeStopMarket:
		if tick.Bid.LessThan(price) || (tick.Bid.Equal(price) && ex.fillModel.IsStopFilled()) {
			return ex.stopFillPrice(o, price), LiquidityTaker, true
		}
	case o.Side == SideSell && o.Type == OrderTypeLimit:
		if tick.Bid.GreaterThan(price) || (tick.Bid.Equal(price) && ex.fillModel.IsLimitFilled()) {
			return price, LiquidityMaker, true
		}
	}
	return decimal.Zero, LiquidityMaker, false
}

// stopFillPrice applies slippage to a triggered STOP_MARKET fill: when
// FillModel.IsSlipped() returns true, the price shifts by the symbol's
// tick size, BUY adds and SELL subtracts.
func (ex *Exchange) stopFillPrice(o *Order, triggerPrice decimal.Decimal) decimal.Decimal {
	return ex.applySlippage(o.Side, o.Symbol, triggerPrice)
}

// applySlippage is the shared slippage rule used by both triggered
// STOP_MARKET fills and MARKET order fills: when FillModel.IsSlipped()
// returns true, the price shifts by one tick size, BUY adds and SELL
// subtracts.
func (ex *Exchange) applySlippage(side Side, sym Symbol, price decimal.Decimal) decimal.Decimal {
	if !ex.fillModel.IsSlipped() {
		return price
	}
	tickSize := ex.instruments[sym.Code].TickSize
	if side == SideBuy {
		return price.Add(tickSize)
	}
	return price.Sub(tickSize)
}
