package engine

import (
	"math/rand"
	"time"
)

// DefaultInitialPrice seeds a symbol's random walk when no override is
// configured.
const DefaultInitialPrice = 100.0

// quoteVolume is the fixed volume sentinel carried on every generated quote.
const quoteVolume = 100.0

// PriceGenerator produces a synthetic quote per tick for one symbol, driven
// by a bounded random walk: each tick draws a uniform perturbation in [-1, 1]
// and applies at most a ±1% move.
type PriceGenerator struct {
	symbol string
	price  float64
	rng    *rand.Rand
}

// NewPriceGenerator creates a generator starting at initialPrice.
func NewPriceGenerator(symbol string, initialPrice float64) *PriceGenerator {
	return &PriceGenerator{
		symbol: symbol,
		price:  initialPrice,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next advances the walk one tick and returns the resulting quote.
func (g *PriceGenerator) Next(now time.Time) MarketData {
	change := g.rng.Float64()*2 - 1
	g.price *= 1 + change*0.01

	return MarketData{
		Symbol:    g.symbol,
		Price:     g.price,
		Volume:    quoteVolume,
		Timestamp: now,
	}
}

// Price returns the current price of the walk.
func (g *PriceGenerator) Price() float64 { return g.price }
