package exchange

import "github.com/shopspring/decimal"

// RateCalculator is the external currency cross-rate collaborator. The
// core never computes rates itself; it builds the bid/ask quote tables
// from the current market snapshot and delegates.
type RateCalculator interface {
	GetRate(from, to string, priceType PriceType, bidQuotes, askQuotes map[string]decimal.Decimal) (decimal.Decimal, bool)
}

// crossRateCache holds the live per-symbol snapshot the matching engine
// maintains and exposes it as currency-keyed bid/ask tables on demand,
// grounded on the per-symbol currentPrice map in
// internal/execution/simulated.go, generalized to also serve currency
// lookups instead of only symbol lookups.
type crossRateCache struct {
	snapshot map[string]QuoteTick // keyed by symbol code
	// symbolCurrency maps a symbol's code to its quote currency, so the
	// cache can build currency-keyed tables from symbol-keyed snapshots.
	symbolCurrency map[string]string
}

func newCrossRateCache() *crossRateCache {
	return &crossRateCache{
		snapshot:       make(map[string]QuoteTick),
		symbolCurrency: make(map[string]string),
	}
}

func (c *crossRateCache) update(tick QuoteTick, quoteCurrency string) {
	c.snapshot[tick.Symbol.Code] = tick
	c.symbolCurrency[tick.Symbol.Code] = quoteCurrency
}

func (c *crossRateCache) reset() {
	c.snapshot = make(map[string]QuoteTick)
	c.symbolCurrency = make(map[string]string)
}

// quoteTables builds the {currency -> bid} and {currency -> ask} maps the
// RateCalculator expects, from the current market snapshot.
func (c *crossRateCache) quoteTables() (bid, ask map[string]decimal.Decimal) {
	bid = make(map[string]decimal.Decimal, len(c.snapshot))
	ask = make(map[string]decimal.Decimal, len(c.snapshot))
	for symCode, tick := range c.snapshot {
		ccy, ok := c.symbolCurrency[symCode]
		if !ok {
			continue
		}
		bid[ccy] = tick.Bid
		ask[ccy] = tick.Ask
	}
	return bid, ask
}

// rate resolves the conversion rate from `from` to `to`. When the
// currencies match, it returns 1 without consulting the calculator; that
// common case needs no lookup.
func (c *crossRateCache) rate(calc RateCalculator, from, to string, priceType PriceType) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if calc == nil {
		return decimal.Zero, ErrUnknownCurrency
	}
	bid, ask := c.quoteTables()
	r, ok := calc.GetRate(from, to, priceType, bid, ask)
	if !ok {
		return decimal.Zero, ErrUnknownCurrency
	}
	return r, nil
}
