package exchange

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SubmitOrder submits a single standalone order. If positionID is
// non-empty, it is recorded in positionIndex for the order before
// processing — this is the path a driver uses to close an existing
// position rather than open a new one.
func (ex *Exchange) SubmitOrder(o *Order, positionID string) {
	ex.requireClient()
	if o == nil {
		panicInvariant("exchange: SubmitOrder called with nil order")
	}
	if _, dup := ex.linked.workingOrders[o.ClOrdID]; dup {
		panicInvariant("exchange: duplicate client order id " + o.ClOrdID)
	}

	if positionID != "" {
		ex.linked.positionIndex[o.ClOrdID] = positionID
	}

	ex.emit.submitted(o.ClOrdID, o.Symbol)
	o.State = OrderStateSubmitted
	ex.processOrder(o)
}

// SubmitBracketOrder allocates a fresh position for the entry's symbol,
// builds the child-order and OCO tables, and processes only the entry —
// the stop and take-profit legs stay dormant until the entry fills.
// stopLoss is mandatory; takeProfit is optional (pass nil to omit it).
func (ex *Exchange) SubmitBracketOrder(entry, stopLoss, takeProfit *Order) {
	ex.requireClient()
	if entry == nil || stopLoss == nil {
		panicInvariant("exchange: SubmitBracketOrder requires entry and stopLoss")
	}

	positionID := ex.ids.nextPositionID(entry.Symbol)
	ex.linked.positionIndex[entry.ClOrdID] = positionID

	children := []*Order{stopLoss}
	protecting := []*Order{stopLoss}
	if takeProfit != nil {
		children = append(children, takeProfit)
		protecting = append(protecting, takeProfit)
		ex.linked.installOCOPair(takeProfit.ClOrdID, stopLoss.ClOrdID)
	}
	ex.linked.childOrders[entry.ClOrdID] = children
	ex.linked.registerPositionOCO(positionID, protecting...)

	ex.emit.submitted(entry.ClOrdID, entry.Symbol)
	entry.State = OrderStateSubmitted
	ex.emit.submitted(stopLoss.ClOrdID, stopLoss.Symbol)
	stopLoss.State = OrderStateSubmitted
	if takeProfit != nil {
		ex.emit.submitted(takeProfit.ClOrdID, takeProfit.Symbol)
		takeProfit.State = OrderStateSubmitted
	}

	ex.processOrder(entry)
}

// CancelOrder removes a working order and runs the OCO cascade for it.
// The venue id is never synthesized from the client id — a working order
// always already carries the venue id assigned at accept time.
func (ex *Exchange) CancelOrder(clOrdID string) {
	ex.requireClient()
	o, ok := ex.linked.workingOrders[clOrdID]
	if !ok {
		ex.emit.cancelReject(clOrdID, "cancel order", "order not found")
		return
	}
	if o.ID == "" {
		panicInvariant(ErrMissingVenueID.Error())
	}

	delete(ex.linked.workingOrders, clOrdID)
	o.State = OrderStateCancelled
	ex.emit.cancelled(clOrdID, o.ID)
	ex.linked.checkOCO(clOrdID, ex.emit, ex.logger)
}

// ModifyOrder re-validates a new price/quantity against the current
// market. A BUY/SELL LIMIT modify that now crosses the market emits
// OrderFilled directly rather than re-running accept on an order that is
// already ACCEPTED/WORKING.
func (ex *Exchange) ModifyOrder(clOrdID string, newQty decimal.Decimal, newPrice *decimal.Decimal) {
	ex.requireClient()
	o, ok := ex.linked.workingOrders[clOrdID]
	if !ok {
		ex.emit.cancelReject(clOrdID, "modify order", "order not found")
		return
	}
	if newQty.IsZero() {
		ex.emit.cancelReject(clOrdID, "modify order", "invalid new quantity: must be non-zero")
		return
	}

	market, hasMarket := ex.market[o.Symbol.Code]
	if !hasMarket {
		ex.emit.cancelReject(clOrdID, "modify order", fmt.Sprintf("no market for %s", o.Symbol.Code))
		return
	}

	price := o.Price
	if newPrice != nil {
		price = newPrice
	}

	switch o.Type {
	case OrderTypeLimit:
		crosses := (o.Side == SideBuy && price.GreaterThanOrEqual(market.Ask)) ||
			(o.Side == SideSell && price.LessThanOrEqual(market.Bid))
		if crosses {
			if o.IsPostOnly {
				ex.emit.cancelReject(clOrdID, "modify order", "price too far from the market")
				return
			}
			delete(ex.linked.workingOrders, clOrdID)
			o.Price = price
			o.Quantity = newQty
			fillPrice := market.Ask
			if o.Side == SideSell {
				fillPrice = market.Bid
			}
			ex.fillOrder(o, fillPrice, LiquidityTaker)
			return
		}
	case OrderTypeStopMarket:
		wrongSide := (o.Side == SideBuy && price.LessThan(market.Ask)) ||
			(o.Side == SideSell && price.GreaterThan(market.Bid))
		if wrongSide {
			ex.emit.cancelReject(clOrdID, "modify order", "price on wrong side of the market")
			return
		}
	}

	o.Price = price
	o.Quantity = newQty
	ex.emit.modified(clOrdID, o.ID, price, newQty)
}

// processOrder routes a submitted order to the handling appropriate for
// its type: MARKET fills immediately, LIMIT fills or works depending on
// whether it crosses, everything else works once it clears its
// wrong-side check. Precondition: order is not already in workingOrders.
func (ex *Exchange) processOrder(o *Order) {
	instr, ok := ex.instruments[o.Symbol.Code]
	if !ok {
		panicInvariant("exchange: no instrument registered for " + o.Symbol.Code)
	}

	if instr.MaxQuantity != nil && o.Quantity.GreaterThan(*instr.MaxQuantity) {
		ex.emit.rejected(o.ClOrdID, "quantity exceeds instrument maximum")
		return
	}
	if instr.MinQuantity != nil && o.Quantity.LessThan(*instr.MinQuantity) {
		ex.emit.rejected(o.ClOrdID, "quantity below instrument minimum")
		return
	}

	market, ok := ex.market[o.Symbol.Code]
	if !ok {
		ex.emit.rejected(o.ClOrdID, fmt.Sprintf("no market for %s", o.Symbol.Code))
		return
	}

	switch o.Type {
	case OrderTypeMarket:
		ex.acceptOrder(o)
		var fillPrice decimal.Decimal
		switch o.Side {
		case SideBuy:
			fillPrice = ex.applySlippage(SideBuy, o.Symbol, market.Ask)
		case SideSell:
			fillPrice = ex.applySlippage(SideSell, o.Symbol, market.Bid)
		default:
			panicInvariant("exchange: order has invalid side")
		}
		ex.fillOrder(o, fillPrice, LiquidityTaker)

	case OrderTypeLimit:
		if o.Price == nil {
			panicInvariant("exchange: LIMIT order has no price")
		}
		crosses := (o.Side == SideBuy && o.Price.GreaterThanOrEqual(market.Ask)) ||
			(o.Side == SideSell && o.Price.LessThanOrEqual(market.Bid))
		// A crossing post-only order rejects; a crossing non-post-only
		// order accepts and fills immediately at the opposite side as
		// TAKER; a non-crossing order accepts and works.
		if crosses {
			if o.IsPostOnly {
				ex.emit.rejected(o.ClOrdID, "price too far from the market")
				return
			}
			ex.acceptOrder(o)
			fillPrice := market.Ask
			if o.Side == SideSell {
				fillPrice = market.Bid
			}
			ex.fillOrder(o, fillPrice, LiquidityTaker)
			return
		}
		ex.acceptOrder(o)
		ex.workOrder(o)

	default: // STOP_MARKET and other passive types
		if o.Price == nil {
			panicInvariant("exchange: passive order has no price")
		}
		wrongSide := (o.Side == SideBuy && o.Price.LessThan(market.Ask)) ||
			(o.Side == SideSell && o.Price.GreaterThan(market.Bid))
		if wrongSide {
			ex.emit.rejected(o.ClOrdID, "price on wrong side of the market")
			return
		}
		ex.acceptOrder(o)
		ex.workOrder(o)
	}
}

func (ex *Exchange) acceptOrder(o *Order) {
	o.ID = ex.ids.nextOrderID(o.Symbol)
	o.State = OrderStateAccepted
	ex.emit.accepted(o.ClOrdID, o.ID, o.Symbol)
}

func (ex *Exchange) workOrder(o *Order) {
	o.State = OrderStateWorking
	ex.linked.workingOrders[o.ClOrdID] = o
	ex.emit.working(o.ClOrdID, o.ID)
}

// fillOrder executes a fill for a working or newly-crossing order: it
// resolves the position, emits the fill event, mutates the account, then
// runs the OCO cascade and any bracket child-order side effects.
func (ex *Exchange) fillOrder(o *Order, fillPrice decimal.Decimal, liquidity LiquiditySide) {
	instr := ex.instruments[o.Symbol.Code]

	positionID, hadPosition := ex.linked.positionIndex[o.ClOrdID]
	if !hadPosition {
		positionID = ex.ids.nextPositionID(o.Symbol)
		ex.linked.positionIndex[o.ClOrdID] = positionID
	}

	var pos Position
	var hasPos bool
	if ex.execCache != nil {
		pos, hasPos = ex.execCache.Position(positionID)
	}
	if !hasPos {
		pos = nil
		// A pre-assigned position id (an explicit SubmitOrder positionID, or
		// a bracket child wired via registerPositionOCO) that the execution
		// cache doesn't recognize is logged and skipped, never panicking. A
		// freshly minted positionID for a brand-new position is the normal
		// case and logs nothing.
		if hadPosition {
			ex.logger.Error("fill references unknown position",
				"position_id", positionID, "cl_ord_id", o.ClOrdID)
		}
	}

	commission := instr.CalculateCommission(o.Quantity, fillPrice, liquidity, decimal.NewFromInt(1))

	o.State = OrderStateFilled
	filled := OrderFilled{
		ClOrdID:            o.ClOrdID,
		OrderID:            o.ID,
		ExecutionID:        ex.ids.nextExecutionID(),
		PositionID:         positionID,
		StrategyID:         "",
		Symbol:             o.Symbol,
		Side:               o.Side,
		FilledQty:          o.Quantity,
		LeavesQty:          decimal.Zero,
		FillPrice:          fillPrice,
		QuoteCurrency:      instr.QuoteCurrency,
		SettlementCurrency: instr.SettlementCurrency,
		IsInverse:          instr.IsInverse,
		Commission:         commission,
		CommissionCurrency: instr.QuoteCurrency,
		Liquidity:          liquidity,
	}
	ex.emit.filled(filled)

	var avgOpen decimal.Decimal
	if hasPos {
		avgOpen = pos.AvgOpenPrice()
	}
	acctState := ex.acct.applyFill(filled, pos, avgOpen, ex.xrates, ex.rateCalc)
	ex.emit.accountState(acctState)

	ex.linked.checkOCO(o.ClOrdID, ex.emit, ex.logger)

	if children, isParent := ex.linked.childOrders[o.ClOrdID]; isParent {
		for _, child := range children {
			if child.State.IsFinal() {
				continue
			}
			ex.processOrder(child)
		}
		ex.linked.cleanUpChildOrders(o.ClOrdID)
	}

	if hasPos && pos.IsClosed() {
		ex.linked.cancelPositionOCO(positionID, ex.emit)
	}
}
