package exchange

import "log/slog"

// linkedOrders holds the bracket/OCO/working-order side tables; the id
// counters live separately in idAllocator. Grounded on the
// map-of-maps bookkeeping style of internal/execution/simulated.go
// (positions/openOrders maps), generalized to the bracket/OCO table set;
// no pack example implements bracket/OCO linkage directly, so the cascade
// algorithms here are original to this package.
type linkedOrders struct {
	// workingOrders contains exactly those orders whose state is WORKING,
	// keyed by client order id.
	workingOrders map[string]*Order

	// positionIndex is the pre-assigned position for a bracket's children,
	// keyed by client order id.
	positionIndex map[string]string

	// childOrders maps a bracket parent's client order id to its ordered
	// list of child orders.
	childOrders map[string][]*Order

	// ocoOrders is the symmetric pair table: if a maps to b, b maps to a.
	ocoOrders map[string]string

	// positionOCOOrders is the OCO group keyed by the position it protects.
	positionOCOOrders map[string][]*Order
}

func newLinkedOrders() *linkedOrders {
	return &linkedOrders{
		workingOrders:     make(map[string]*Order),
		positionIndex:     make(map[string]string),
		childOrders:       make(map[string][]*Order),
		ocoOrders:         make(map[string]string),
		positionOCOOrders: make(map[string][]*Order),
	}
}

func (l *linkedOrders) reset() {
	l.workingOrders = make(map[string]*Order)
	l.positionIndex = make(map[string]string)
	l.childOrders = make(map[string][]*Order)
	l.ocoOrders = make(map[string]string)
	l.positionOCOOrders = make(map[string][]*Order)
}

// installOCOPair records the symmetric pair table entry for a and b: if a
// maps to b, b must map to a, and both are removed together.
func (l *linkedOrders) installOCOPair(a, b string) {
	l.ocoOrders[a] = b
	l.ocoOrders[b] = a
}

// registerPositionOCO appends orders to the OCO group protecting position,
// pre-indexing each under positionIndex.
func (l *linkedOrders) registerPositionOCO(position string, orders ...*Order) {
	for _, o := range orders {
		l.positionIndex[o.ClOrdID] = position
	}
	l.positionOCOOrders[position] = append(l.positionOCOOrders[position], orders...)
}

// checkOCO runs the OCO cascade for id: the paired order is rejected (if
// it's a pending bracket child) or cancelled (if it's working). emit is
// called for each resulting lifecycle event; logger records an error
// whenever the paired child is found already in a terminal state, since
// that should not happen under normal cascade ordering.
func (l *linkedOrders) checkOCO(id string, e *emitter, logger *slog.Logger) {
	other, ok := l.ocoOrders[id]
	if !ok {
		return
	}
	delete(l.ocoOrders, id)
	delete(l.ocoOrders, other)

	// Pending bracket child matching `other` whose state is not WORKING:
	// reject it (guard: skip if already completed).
	for _, children := range l.childOrders {
		for _, c := range children {
			if c.ClOrdID != other {
				continue
			}
			if c.State.IsFinal() {
				logger.Error("oco cascade skipped: order already in a terminal state",
					"cl_ord_id", c.ClOrdID, "state", c.State.String())
				continue
			}
			if c.State != OrderStateWorking {
				c.State = OrderStateRejected
				e.rejected(c.ClOrdID, "OCO order rejected from "+id)
			}
		}
	}

	if wo, ok := l.workingOrders[other]; ok {
		wo.State = OrderStateCancelled
		e.cancelled(other, wo.ID)
		delete(l.workingOrders, other)
	}
}

// cleanUpChildOrders deletes childOrders[id] if present. No event is
// emitted.
func (l *linkedOrders) cleanUpChildOrders(id string) {
	delete(l.childOrders, id)
}

// cancelPositionOCO cancels every still-WORKING order in the OCO group
// protecting position, then deletes the group. Called once a position's
// fills bring it to flat, so its remaining protective orders are moot.
func (l *linkedOrders) cancelPositionOCO(position string, e *emitter) {
	orders, ok := l.positionOCOOrders[position]
	if !ok {
		return
	}
	for _, o := range orders {
		if wo, ok := l.workingOrders[o.ClOrdID]; ok {
			wo.State = OrderStateCancelled
			e.cancelled(o.ClOrdID, wo.ID)
			delete(l.workingOrders, o.ClOrdID)
		}
	}
	delete(l.positionOCOOrders, position)
}
