package exchange

import "testing"

// ModifyOrder on an order that is not in workingOrders emits
// OrderCancelReject rather than silently doing nothing.
func TestModifyUnknownOrderRejected(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	ex.ModifyOrder("does-not-exist", dec("1"), nil)
	if len(client.cancelRejected) != 1 {
		t.Fatalf("expected 1 cancel-reject, got %d", len(client.cancelRejected))
	}
}

// A zero new quantity is rejected without mutating the order.
func TestModifyZeroQuantityRejected(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	o := &Order{ClOrdID: "M-1", Symbol: sym("EURUSD"), Side: SideBuy, Type: OrderTypeLimit, Quantity: dec("1"), Price: ptr(dec("1.0500"))}
	ex.SubmitOrder(o, "")

	ex.ModifyOrder("M-1", dec("0"), nil)
	if len(client.cancelRejected) != 1 {
		t.Fatalf("expected 1 cancel-reject, got %d", len(client.cancelRejected))
	}
	if !o.Quantity.Equal(dec("1")) {
		t.Errorf("quantity should be unchanged after rejected modify, got %s", o.Quantity)
	}
}

// A STOP_MARKET modify that would move the trigger to the wrong side of the
// market (a BUY stop below the ask, a SELL stop above the bid) is rejected.
func TestModifyStopWrongSideRejected(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	o := &Order{ClOrdID: "M-2", Symbol: sym("EURUSD"), Side: SideBuy, Type: OrderTypeStopMarket, Quantity: dec("1"), Price: ptr(dec("1.1010"))}
	ex.SubmitOrder(o, "")

	newPrice := dec("1.0900") // now below the ask: wrong side for a BUY stop
	ex.ModifyOrder("M-2", dec("1"), &newPrice)

	if len(client.cancelRejected) != 1 {
		t.Fatalf("expected 1 cancel-reject, got %d", len(client.cancelRejected))
	}
	if !o.Price.Equal(dec("1.1010")) {
		t.Errorf("stop price should be unchanged after rejected modify, got %s", o.Price)
	}
}

// A non-crossing modify on a resting LIMIT order just re-prices it in place
// and emits OrderModified, without touching workingOrders membership.
func TestModifyNonCrossingEmitsModified(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	o := &Order{ClOrdID: "M-3", Symbol: sym("EURUSD"), Side: SideBuy, Type: OrderTypeLimit, Quantity: dec("1"), Price: ptr(dec("1.0500"))}
	ex.SubmitOrder(o, "")

	newPrice := dec("1.0600") // still below the ask, still a resting BUY limit
	ex.ModifyOrder("M-3", dec("2"), &newPrice)

	if len(client.modified) != 1 {
		t.Fatalf("expected 1 OrderModified, got %d", len(client.modified))
	}
	if len(client.filled) != 0 {
		t.Fatalf("non-crossing modify must not fill, got %d fills", len(client.filled))
	}
	if !o.Price.Equal(newPrice) || !o.Quantity.Equal(dec("2")) {
		t.Errorf("order not updated: price=%s qty=%s", o.Price, o.Quantity)
	}
	if _, ok := ex.linked.workingOrders["M-3"]; !ok {
		t.Error("order should remain WORKING after a non-crossing modify")
	}
}

// A LIMIT modify that now crosses the market fills immediately as TAKER
// instead of re-running accept on an already-WORKING order.
func TestModifyLimitCrossingFillsDirectly(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	o := &Order{ClOrdID: "M-4", Symbol: sym("EURUSD"), Side: SideBuy, Type: OrderTypeLimit, Quantity: dec("1"), Price: ptr(dec("1.0500"))}
	ex.SubmitOrder(o, "")

	newPrice := dec("1.1005") // now crosses the ask
	ex.ModifyOrder("M-4", dec("1"), &newPrice)

	if len(client.filled) != 1 {
		t.Fatalf("expected crossing modify to fill, got %d fills", len(client.filled))
	}
	if !client.filled[0].FillPrice.Equal(dec("1.1002")) {
		t.Errorf("fill price = %s, want ask 1.1002", client.filled[0].FillPrice)
	}
	if client.filled[0].Liquidity != LiquidityTaker {
		t.Errorf("liquidity = %v, want TAKER", client.filled[0].Liquidity)
	}
	if len(client.modified) != 0 {
		t.Errorf("a crossing modify should not also emit OrderModified, got %d", len(client.modified))
	}
	if _, ok := ex.linked.workingOrders["M-4"]; ok {
		t.Error("order must leave workingOrders once a crossing modify fills it")
	}
}

// A crossing modify on a post-only order is rejected rather than filled.
func TestModifyPostOnlyCrossingRejected(t *testing.T) {
	ex, client, t0 := newTestExchange(t, DefaultConfig(), StubFillModel{})
	ex.ProcessTick(tick(t0, "1.1000", "1.1002"))

	o := &Order{ClOrdID: "M-5", Symbol: sym("EURUSD"), Side: SideBuy, Type: OrderTypeLimit, Quantity: dec("1"), Price: ptr(dec("1.0500")), IsPostOnly: true}
	ex.SubmitOrder(o, "")

	newPrice := dec("1.1005")
	ex.ModifyOrder("M-5", dec("1"), &newPrice)

	if len(client.cancelRejected) != 1 {
		t.Fatalf("expected 1 cancel-reject, got %d", len(client.cancelRejected))
	}
	if len(client.filled) != 0 {
		t.Fatalf("post-only crossing modify must not fill, got %d", len(client.filled))
	}
	if _, ok := ex.linked.workingOrders["M-5"]; !ok {
		t.Error("rejected modify must leave the order WORKING, unchanged")
	}
}
