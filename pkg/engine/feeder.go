package engine

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// FeederConfig controls the synthetic order feeder used for demos and load
// tests.
type FeederConfig struct {
	BatchSize int           // orders submitted per batch
	Interval  time.Duration // batch period
	Symbols   []string      // symbols to trade
	BasePrice float64       // center of the random price band
	Spread    float64       // half-width of the band (absolute)
	MaxQty    int64         // max order quantity per order
}

// DefaultFeederConfig returns a modest load: 10 orders every 100ms, crossing
// around the engine's default initial price.
func DefaultFeederConfig() FeederConfig {
	return FeederConfig{
		BatchSize: 10,
		Interval:  100 * time.Millisecond,
		Symbols:   []string{"AAPL"},
		BasePrice: DefaultInitialPrice,
		Spread:    5.0,
		MaxQty:    100,
	}
}

// orderGenerator produces random orders in a band around BasePrice, split
// evenly between sides so the book keeps crossing.
type orderGenerator struct {
	cfg FeederConfig
	rng *rand.Rand
}

func newOrderGenerator(cfg FeederConfig) *orderGenerator {
	return &orderGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *orderGenerator) next() Order {
	side := Buy
	if g.rng.Intn(2) == 1 {
		side = Sell
	}
	price := g.cfg.BasePrice + (g.rng.Float64()*2-1)*g.cfg.Spread
	if price < 0.01 {
		price = 0.01
	}
	return Order{
		Symbol: g.cfg.Symbols[g.rng.Intn(len(g.cfg.Symbols))],
		Side:   side,
		Price:  price,
		Qty:    g.rng.Int63n(g.cfg.MaxQty) + 1,
	}
}

// StartFeeder launches a goroutine that submits random orders to eng until
// the returned cancel function is called or ctx is done.
func StartFeeder(ctx context.Context, eng *Engine, cfg FeederConfig, log *zap.SugaredLogger) context.CancelFunc {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"AAPL"}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if cfg.BasePrice <= 0 {
		cfg.BasePrice = DefaultInitialPrice
	}
	if cfg.MaxQty <= 0 {
		cfg.MaxQty = 100
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	gen := newOrderGenerator(cfg)
	feedCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		start := time.Now()
		total := 0

		log.Infow("feeder_started",
			"batch_size", cfg.BatchSize,
			"interval_ms", cfg.Interval.Milliseconds(),
			"symbols", cfg.Symbols)

		for {
			select {
			case <-feedCtx.Done():
				elapsed := time.Since(start)
				log.Infow("feeder_stopped",
					"orders", total,
					"elapsed", elapsed.Round(time.Second).String())
				return

			case <-ticker.C:
				for i := 0; i < cfg.BatchSize; i++ {
					if _, err := eng.SubmitOrder(gen.next()); err != nil {
						log.Warnw("feeder_submit_failed", "err", err)
					}
				}
				total += cfg.BatchSize
			}
		}
	}()

	return cancel
}
