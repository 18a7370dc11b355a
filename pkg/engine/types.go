package engine

import (
	"time"

	"github.com/quantfold/execore/pkg/engine/orderbook"
)

// Re-export the order types so callers submitting orders don't need to import
// the orderbook package directly.
type (
	Side  = orderbook.Side
	Order = orderbook.Order
	Fill  = orderbook.Fill
)

const (
	Buy  = orderbook.Buy
	Sell = orderbook.Sell
)

// MarketData is one synthetic quote produced by the tick loop. Events are
// ephemeral: observers must not retain pointers past the callback's return.
type MarketData struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
	Timestamp time.Time `json:"timestamp"`
}

// Trade is published once per fill, carrying the taker's order id and the
// midpoint match price.
type Trade struct {
	OrderID   string    `json:"orderId"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketDataFunc observes quotes for one symbol. Invoked synchronously on the
// tick goroutine, in registration order.
type MarketDataFunc func(MarketData)

// TradeFunc observes trades for one symbol. Invoked synchronously on the
// submitting goroutine, in registration order.
type TradeFunc func(Trade)
