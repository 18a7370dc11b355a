package engine

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return New(Options{TickInterval: 5 * time.Millisecond})
}

func TestSubmitOrderValidation(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name    string
		order   Order
		wantErr error
	}{
		{
			name:    "valid order",
			order:   Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 10},
			wantErr: nil,
		},
		{
			name:    "empty symbol",
			order:   Order{Symbol: "", Side: Buy, Price: 100.0, Qty: 10},
			wantErr: ErrEmptySymbol,
		},
		{
			name:    "zero quantity",
			order:   Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 0},
			wantErr: ErrInvalidQty,
		},
		{
			name:    "negative quantity",
			order:   Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: -5},
			wantErr: ErrInvalidQty,
		},
		{
			name:    "unknown side",
			order:   Order{Symbol: "AAPL", Side: 0, Price: 100.0, Qty: 10},
			wantErr: ErrInvalidSide,
		},
		{
			name:    "zero price",
			order:   Order{Symbol: "AAPL", Side: Buy, Price: 0, Qty: 10},
			wantErr: ErrInvalidPx,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := e.SubmitOrder(tt.order)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if id == "" {
					t.Error("expected a generated order id")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if id != "" {
				t.Errorf("rejected order returned id %q", id)
			}
		})
	}
}

func TestSubmitOrderAssignsUniqueIDs(t *testing.T) {
	e := newTestEngine()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 1})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate order id %s", id)
		}
		seen[id] = true
	}
}

// TestCancelOrderUnsupported checks the stub contract: deterministic
// negative answer, book state untouched (including never-issued ids).
func TestCancelOrderUnsupported(t *testing.T) {
	e := newTestEngine()
	id, err := e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 10})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, target := range []string{id, "never-issued"} {
		if err := e.CancelOrder(target); !errors.Is(err, ErrCancelNotSupported) {
			t.Errorf("CancelOrder(%q) = %v, want ErrCancelNotSupported", target, err)
		}
	}
	if got := e.BestBid("AAPL"); got != 100.0 {
		t.Errorf("best bid = %v after cancel attempts, want 100.0", got)
	}
}

// TestPerSymbolIsolation verifies matching on one symbol leaves another's
// state untouched.
func TestPerSymbolIsolation(t *testing.T) {
	e := newTestEngine()

	e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 10})
	e.SubmitOrder(Order{Symbol: "AAPL", Side: Sell, Price: 100.0, Qty: 10})

	e.SubmitOrder(Order{Symbol: "MSFT", Side: Buy, Price: 50.0, Qty: 3})

	if got := e.Position("AAPL"); got != 10 {
		t.Errorf("AAPL position = %d, want 10", got)
	}
	if got := e.Position("MSFT"); got != 0 {
		t.Errorf("MSFT position = %d, want 0", got)
	}
	if got := e.BestBid("MSFT"); got != 50.0 {
		t.Errorf("MSFT best bid = %v, want 50.0", got)
	}
}

// TestAccessorsUnknownSymbol checks reads on unknown symbols return zeros
// without creating books.
func TestAccessorsUnknownSymbol(t *testing.T) {
	e := newTestEngine()

	if got := e.Position("NOPE"); got != 0 {
		t.Errorf("Position = %d, want 0", got)
	}
	if got := e.AveragePrice("NOPE"); got != 0 {
		t.Errorf("AveragePrice = %v, want 0", got)
	}
	if got := e.RealizedPnL("NOPE"); got != 0 {
		t.Errorf("RealizedPnL = %v, want 0", got)
	}
	if got := e.UnrealizedPnL("NOPE"); got != 0 {
		t.Errorf("UnrealizedPnL = %v, want 0", got)
	}
	if _, ok := e.lookupBook("NOPE"); ok {
		t.Error("read accessor created a book")
	}
}

// TestConcurrentSubmission hammers one symbol from many goroutines and checks
// no update is lost: every submitted quantity is accounted for either in the
// position or in resting interest.
func TestConcurrentSubmission(t *testing.T) {
	e := newTestEngine()

	const goroutines = 8
	const perGoroutine = 200
	const qty = 5

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			side := Buy
			price := 101.0
			if g%2 == 1 {
				side = Sell
				price = 99.0
			}
			for i := 0; i < perGoroutine; i++ {
				if _, err := e.SubmitOrder(Order{Symbol: "AAPL", Side: side, Price: price, Qty: qty}); err != nil {
					t.Errorf("submit: %v", err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	// Equal buy and sell interest at crossing prices must fully match.
	want := int64(goroutines / 2 * perGoroutine * qty)
	if got := e.Position("AAPL"); got != want {
		t.Errorf("position = %d, want %d (lost updates)", got, want)
	}
}

// TestMarketDataLoop subscribes, runs the engine briefly, and checks quotes
// arrive and stop arriving after Stop.
func TestMarketDataLoop(t *testing.T) {
	e := newTestEngine()

	var mu sync.Mutex
	var got []MarketData
	e.SubscribeMarketData("AAPL", func(md MarketData) {
		mu.Lock()
		got = append(got, md)
		mu.Unlock()
	})

	e.Start()
	e.Start() // idempotent: must not spawn a second loop

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("only %d quotes before deadline", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	e.Stop()

	mu.Lock()
	n := len(got)
	for _, md := range got {
		if md.Symbol != "AAPL" {
			t.Errorf("quote for %q on AAPL stream", md.Symbol)
		}
		if md.Volume != 100.0 {
			t.Errorf("volume = %v, want fixed 100", md.Volume)
		}
		if md.Price <= 0 {
			t.Errorf("non-positive quote price %v", md.Price)
		}
	}
	mu.Unlock()

	// No orphaned iterations after Stop returns.
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	if len(got) != n {
		t.Errorf("quotes delivered after Stop: %d -> %d", n, len(got))
	}
	mu.Unlock()

	e.Stop() // idempotent
}

// TestStartStopCycle verifies the engine can be restarted after a stop.
func TestStartStopCycle(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 3; i++ {
		e.Start()
		e.Stop()
	}
}

// TestTradePublication checks a fill reaches trade subscribers with the
// taker id and midpoint price.
func TestTradePublication(t *testing.T) {
	e := newTestEngine()

	var mu sync.Mutex
	var trades []Trade
	e.SubscribeTrades("AAPL", func(tr Trade) {
		mu.Lock()
		trades = append(trades, tr)
		mu.Unlock()
	})

	e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 102.0, Qty: 10})
	sellID, err := e.SubmitOrder(Order{Symbol: "AAPL", Side: Sell, Price: 100.0, Qty: 10})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(trades) != 1 {
		t.Fatalf("want 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.OrderID != sellID {
		t.Errorf("trade order id = %s, want taker %s", tr.OrderID, sellID)
	}
	if tr.Symbol != "AAPL" || tr.Quantity != 10 || tr.Price != 101.0 {
		t.Errorf("trade = %+v, want AAPL qty 10 at 101.0", tr)
	}
	if tr.Timestamp.IsZero() {
		t.Error("trade timestamp unset")
	}
}

// TestSubscriptionSemantics covers duplicate accumulation, registration
// order, and idempotent unsubscribe of missing symbols.
func TestSubscriptionSemantics(t *testing.T) {
	e := newTestEngine()

	// Unsubscribing with no active subscription is a no-op.
	e.UnsubscribeMarketData("AAPL")
	e.UnsubscribeTrades("AAPL")

	var order []string
	e.SubscribeTrades("AAPL", func(Trade) { order = append(order, "first") })
	e.SubscribeTrades("AAPL", func(Trade) { order = append(order, "second") })
	e.SubscribeTrades("AAPL", func(Trade) { order = append(order, "first") }) // duplicate accumulates

	e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 1})
	e.SubmitOrder(Order{Symbol: "AAPL", Side: Sell, Price: 100.0, Qty: 1})

	want := []string{"first", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("callback count = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("callback[%d] = %s, want %s", i, order[i], want[i])
		}
	}

	// Unsubscribe drops the whole list; later fills deliver nothing.
	e.UnsubscribeTrades("AAPL")
	order = order[:0]
	e.SubmitOrder(Order{Symbol: "AAPL", Side: Buy, Price: 100.0, Qty: 1})
	e.SubmitOrder(Order{Symbol: "AAPL", Side: Sell, Price: 100.0, Qty: 1})
	if len(order) != 0 {
		t.Errorf("callbacks after unsubscribe: %v", order)
	}
}
