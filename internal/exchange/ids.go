package exchange

import "fmt"

// idAllocator mints dense monotonic identifiers: per-symbol position and
// order sequences, and a global execution sequence. It owns no other
// state and is never reached for concurrently — the exchange core is
// single-threaded.
type idAllocator struct {
	symbolPosCount map[string]int
	symbolOrdCount map[string]int
	executionCount int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{
		symbolPosCount: make(map[string]int),
		symbolOrdCount: make(map[string]int),
	}
}

// nextPositionID returns "B-<symbol>-<n>" with n the next per-symbol
// position count.
func (a *idAllocator) nextPositionID(sym Symbol) string {
	a.symbolPosCount[sym.Code]++
	return fmt.Sprintf("B-%s-%d", sym.Code, a.symbolPosCount[sym.Code])
}

// nextOrderID returns "B-<symbol>-<n>" with n the next per-symbol order
// count. Position and order sequences are independent counters even though
// they share a format string.
func (a *idAllocator) nextOrderID(sym Symbol) string {
	a.symbolOrdCount[sym.Code]++
	return fmt.Sprintf("B-%s-%d", sym.Code, a.symbolOrdCount[sym.Code])
}

// nextExecutionID returns "E-<n>" with n the next global execution count.
func (a *idAllocator) nextExecutionID() string {
	a.executionCount++
	return fmt.Sprintf("E-%d", a.executionCount)
}

func (a *idAllocator) reset() {
	a.symbolPosCount = make(map[string]int)
	a.symbolOrdCount = make(map[string]int)
	a.executionCount = 0
}
