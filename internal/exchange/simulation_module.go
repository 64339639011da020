package exchange

import "time"

// SimulationModule is a registered collaborator invoked with every tick
// before the matching sweep. Registered in order; invoked in registration
// order.
type SimulationModule interface {
	Process(tick QuoteTick, now time.Time)
	Reset()
}
