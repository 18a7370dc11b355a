// Package engine implements the trading execution core: per-symbol order
// books matched on submission, a background loop that republishes synthetic
// market data, and fan-out of market-data and trade events to subscribers.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantfold/execore/pkg/engine/orderbook"
	"github.com/quantfold/execore/pkg/util"
)

// DefaultTickInterval paces the market-data loop when no override is
// configured.
const DefaultTickInterval = 100 * time.Millisecond

var (
	// ErrCancelNotSupported is returned by CancelOrder unconditionally.
	ErrCancelNotSupported = errors.New("order cancellation is not supported")

	ErrEmptySymbol = errors.New("order symbol is empty")
	ErrInvalidSide = errors.New("order side must be buy or sell")
	ErrInvalidQty  = errors.New("order quantity must be positive")
	ErrInvalidPx   = errors.New("order price must be positive and finite")
)

// Options configures an Engine. The zero value is usable; unset fields fall
// back to defaults.
type Options struct {
	// TickInterval is the market-data loop period. Default 100ms.
	TickInterval time.Duration
	// InitialPrice seeds each symbol's price walk. Default 100.0.
	InitialPrice float64
	// Clock drives the loop's waits. Default util.RealClock.
	Clock util.Clock
	// Logger receives engine events. Default zap.NewNop.
	Logger *zap.SugaredLogger
}

// Engine owns the book registry, the subscription tables, and the background
// market-data loop.
//
// Locking: mu is the coarse engine lock covering book lookup/creation, the
// subscription tables, and each tick's read-and-publish pass. Matching runs
// under the per-book lock only, so different symbols match in parallel and
// order submission never waits on the tick loop. Market-data observers run
// synchronously on the tick goroutine while mu is held; a slow observer
// therefore stalls other symbols' ticks.
// Trade observers run on the submitting goroutine after mu is released.
type Engine struct {
	mu    sync.Mutex
	books *bookRegistry
	hub   *subscriptionHub

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	tickInterval time.Duration
	initialPrice float64
	clock        util.Clock
	log          *zap.SugaredLogger
}

// New creates a stopped engine.
func New(opts Options) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.InitialPrice <= 0 {
		opts.InitialPrice = DefaultInitialPrice
	}
	if opts.Clock == nil {
		opts.Clock = util.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Engine{
		books:        newBookRegistry(),
		hub:          newSubscriptionHub(),
		tickInterval: opts.TickInterval,
		initialPrice: opts.InitialPrice,
		clock:        opts.Clock,
		log:          opts.Logger,
	}
}

// Start launches the market-data loop. Starting a running engine is a no-op;
// a second loop is never spawned.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	stop, done := e.stopCh, e.doneCh
	e.mu.Unlock()

	go e.loop(stop, done)
	e.log.Infow("engine_started", "tick_interval_ms", e.tickInterval.Milliseconds())
}

// Stop signals the loop and blocks until it has exited. Stopping a stopped
// engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	stop, done := e.stopCh, e.doneCh
	e.mu.Unlock()

	close(stop)
	<-done
	e.log.Infow("engine_stopped")
}

// loop generates one quote per subscribed symbol every tick. Generators are
// loop-local and created lazily when a symbol first appears in the
// subscription table.
func (e *Engine) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	gens := make(map[string]*PriceGenerator)
	for {
		select {
		case <-stop:
			return
		case <-e.clock.After(e.tickInterval):
			e.publishQuotes(gens)
		}
	}
}

// publishQuotes holds the engine lock across the whole per-tick pass, which
// serializes it against subscription changes.
func (e *Engine) publishQuotes(gens map[string]*PriceGenerator) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	for symbol, subs := range e.hub.marketData {
		if len(subs) == 0 {
			continue
		}
		gen, ok := gens[symbol]
		if !ok {
			gen = NewPriceGenerator(symbol, e.initialPrice)
			gens[symbol] = gen
		}
		quote := gen.Next(now)
		for _, fn := range subs {
			fn(quote)
		}
	}
}

// SubmitOrder validates o, assigns it a fresh id, and routes it to its
// symbol's book (created on first use). Fills produced by the matching pass
// are published to the symbol's trade subscribers before returning. The
// returned id identifies the order whether or not it matched.
func (e *Engine) SubmitOrder(o Order) (string, error) {
	if err := validateOrder(o); err != nil {
		return "", err
	}
	o.ID = uuid.NewString()

	e.mu.Lock()
	book := e.books.getOrCreate(o.Symbol)
	tradeSubs := e.hub.tradeSubscribers(o.Symbol)
	e.mu.Unlock()

	fills := book.Add(o)

	e.log.Debugw("order_submitted",
		"id", o.ID, "symbol", o.Symbol, "side", o.Side.String(),
		"price", o.Price, "qty", o.Qty, "fills", len(fills))

	if len(tradeSubs) > 0 {
		now := e.clock.Now()
		for _, f := range fills {
			trade := Trade{
				OrderID:   f.TakerID,
				Symbol:    o.Symbol,
				Price:     f.Price,
				Quantity:  f.Qty,
				Timestamp: now,
			}
			for _, fn := range tradeSubs {
				fn(trade)
			}
		}
	}

	return o.ID, nil
}

func validateOrder(o Order) error {
	if o.Symbol == "" {
		return ErrEmptySymbol
	}
	if o.Side != Buy && o.Side != Sell {
		return fmt.Errorf("%w: %d", ErrInvalidSide, o.Side)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQty, o.Qty)
	}
	if o.Price <= 0 || math.IsInf(o.Price, 0) || math.IsNaN(o.Price) {
		return fmt.Errorf("%w: %v", ErrInvalidPx, o.Price)
	}
	return nil
}

// CancelOrder reports that cancellation is unsupported. Book state is never
// touched. Kept as a contract stub so callers get a deterministic negative
// answer instead of a silent success.
func (e *Engine) CancelOrder(orderID string) error {
	_ = orderID
	return ErrCancelNotSupported
}

// SubscribeMarketData registers fn for symbol's quote stream. Repeat
// subscriptions accumulate.
func (e *Engine) SubscribeMarketData(symbol string, fn MarketDataFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hub.subscribeMarketData(symbol, fn)
}

// UnsubscribeMarketData removes every quote observer for symbol. Idempotent.
func (e *Engine) UnsubscribeMarketData(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hub.unsubscribeMarketData(symbol)
}

// SubscribeTrades registers fn for symbol's trade stream.
func (e *Engine) SubscribeTrades(symbol string, fn TradeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hub.subscribeTrades(symbol, fn)
}

// UnsubscribeTrades removes every trade observer for symbol. Idempotent.
func (e *Engine) UnsubscribeTrades(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hub.unsubscribeTrades(symbol)
}

// lookupBook fetches an existing book without creating one, so read accessors
// on unknown symbols stay side-effect free.
func (e *Engine) lookupBook(symbol string) (*orderbook.Book, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.books.lookup(symbol)
}

// Position returns the net matched quantity for symbol, or 0 if unknown.
func (e *Engine) Position(symbol string) int64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.Position()
	}
	return 0
}

// AveragePrice returns the blended average match price for symbol, or 0 if
// unknown.
func (e *Engine) AveragePrice(symbol string) float64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.AveragePrice()
	}
	return 0
}

// RealizedPnL returns realized profit for symbol, or 0 if unknown.
func (e *Engine) RealizedPnL(symbol string) float64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.RealizedPnL()
	}
	return 0
}

// UnrealizedPnL marks symbol's position to mid, or 0 if unknown.
func (e *Engine) UnrealizedPnL(symbol string) float64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.UnrealizedPnL()
	}
	return 0
}

// BestBid returns symbol's best resting buy price, or 0 if unknown or empty.
func (e *Engine) BestBid(symbol string) float64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.BestBid()
	}
	return 0
}

// BestAsk returns symbol's best resting sell price, or 0 if unknown or empty.
func (e *Engine) BestAsk(symbol string) float64 {
	if b, ok := e.lookupBook(symbol); ok {
		return b.BestAsk()
	}
	return 0
}
