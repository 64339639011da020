package exchange

import (
	"log/slog"
)

// Exchange is the top-level wiring for the matching and lifecycle engine.
// Constructor-injection style is grounded on internal/engine/engine.go's
// NewEngine wiring, with every goroutine (tradingLoop, equityUpdateLoop,
// channel select) removed: every public entry point here runs to
// completion synchronously on the caller's goroutine, so only the
// construction/registration idiom is carried over, not the concurrency
// structure.
type Exchange struct {
	cfg       Config
	clock     Clock
	fillModel FillModel
	logger    *slog.Logger

	ids     *idAllocator
	linked  *linkedOrders
	acct    *account
	xrates  *crossRateCache

	instruments map[string]Instrument // keyed by symbol code
	market      map[string]QuoteTick  // current snapshot, keyed by symbol code

	client    ExecutionClient
	emit      *emitter
	modules   []SimulationModule
	execCache ExecutionCache
	rateCalc  RateCalculator

	inTick bool
}

// New constructs an Exchange. clock and fillModel are required injected
// collaborators — there is no process-wide singleton for either; logger
// defaults to slog.Default() when nil, matching the convention of an
// optional logger parameter used throughout internal/engine and
// internal/risk.
func New(cfg Config, clock Clock, fillModel FillModel, logger *slog.Logger) *Exchange {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exchange{
		cfg:         cfg,
		clock:       clock,
		fillModel:   fillModel,
		logger:      logger,
		ids:         newIDAllocator(),
		linked:      newLinkedOrders(),
		acct:        newAccount(cfg),
		xrates:      newCrossRateCache(),
		instruments: make(map[string]Instrument),
		market:      make(map[string]QuoteTick),
	}
}

// RegisterClient sets the execution client sink exactly once. Registering
// a second client is a precondition failure.
func (ex *Exchange) RegisterClient(client ExecutionClient) {
	if client == nil {
		panicInvariant("exchange: RegisterClient called with nil client")
	}
	if ex.client != nil {
		panicInvariant(ErrAlreadyHasClient.Error())
	}
	ex.client = client
	ex.emit = newEmitter(client, ex.clock)
	ex.emit.accountState(ex.acct.snapshot())
}

// RegisterSimulationModule appends a module to the registration-ordered
// list invoked on every tick.
func (ex *Exchange) RegisterSimulationModule(m SimulationModule) {
	ex.modules = append(ex.modules, m)
}

// RegisterExecutionCache sets the external read-only order/position lookup
// used by the fill pipeline.
func (ex *Exchange) RegisterExecutionCache(cache ExecutionCache) {
	ex.execCache = cache
}

// RegisterRateCalculator sets the external cross-rate collaborator used
// when a fill's commission currency differs from the account currency.
func (ex *Exchange) RegisterRateCalculator(calc RateCalculator) {
	ex.rateCalc = calc
}

// RegisterInstrument adds or replaces a catalog entry. Instrument catalog
// construction is an external collaborator's concern; the core only
// requires that an entry exist by the time an order for that symbol is
// processed.
func (ex *Exchange) RegisterInstrument(instr Instrument) {
	ex.instruments[instr.Symbol.Code] = instr
}

func (ex *Exchange) requireClient() {
	if ex.client == nil {
		panicInvariant(ErrNoClientRegistered.Error())
	}
}

// Reset clears every internal table and reissues an initial AccountState.
// It must not be called while a tick is being processed.
func (ex *Exchange) Reset() {
	if ex.inTick {
		panicInvariant(ErrResetDuringTick.Error())
	}
	ex.ids.reset()
	ex.linked.reset()
	ex.acct.reset(ex.cfg)
	ex.xrates.reset()
	ex.market = make(map[string]QuoteTick)
	for _, m := range ex.modules {
		m.Reset()
	}
	if ex.emit != nil {
		ex.emit.accountState(ex.acct.snapshot())
	}
}

// CheckResiduals reports any working orders still resting, children
// awaiting their parent's fill, or open OCO pairs — a diagnostic hook for
// drivers verifying there is no leftover state at the end of a run. It
// mutates nothing.
func (ex *Exchange) CheckResiduals() (workingCount, pendingChildCount, openOCOCount int) {
	workingCount = len(ex.linked.workingOrders)
	for _, children := range ex.linked.childOrders {
		pendingChildCount += len(children)
	}
	openOCOCount = len(ex.linked.ocoOrders) / 2
	return
}
