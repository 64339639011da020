package exchange

import "errors"

// Sentinel errors for the exchange core. ErrUnknownCurrency is returned by
// the cross-rate lookup; the others supply the message of an
// InvariantViolation panic. Order-level failures are represented as
// OrderRejected/OrderCancelReject events, never as returned errors.
var (
	ErrNoClientRegistered = errors.New("exchange: no execution client registered")
	ErrAlreadyHasClient   = errors.New("exchange: execution client already registered")
	ErrUnknownCurrency    = errors.New("exchange: no quote available for currency conversion")
	ErrResetDuringTick    = errors.New("exchange: reset called while a tick is being processed")
	ErrMissingVenueID     = errors.New("exchange: order has no assigned venue id")
)

// InvariantViolation is panicked for invalid-argument / precondition
// failures — these represent caller bugs (duplicate client order ids,
// nil instruments), never recoverable runtime conditions.
type InvariantViolation struct {
	Msg string
}

func (e InvariantViolation) Error() string { return e.Msg }

func panicInvariant(msg string) {
	panic(InvariantViolation{Msg: msg})
}
