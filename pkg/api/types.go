package api

// Request/response types for the REST endpoints and websocket messages.

// SubmitOrderRequest mirrors the foreign-callable surface: side is 0 for buy,
// 1 for sell.
type SubmitOrderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     int     `json:"side"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type SubmitOrderResponse struct {
	OrderID string `json:"orderId"`
}

type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
}

// CancelOrderResponse reports whether the cancel took effect. Always false:
// cancellation is an unsupported stub in this engine.
type CancelOrderResponse struct {
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason,omitempty"`
}

// BookSummary is the read-only view of one symbol's matching state. Unknown
// symbols produce all-zero summaries rather than errors.
type BookSummary struct {
	Symbol        string  `json:"symbol"`
	BestBid       float64 `json:"bestBid"`
	BestAsk       float64 `json:"bestAsk"`
	Position      int64   `json:"position"`
	AveragePrice  float64 `json:"averagePrice"`
	RealizedPnL   float64 `json:"realizedPnl"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
	Timestamp     int64   `json:"timestamp"` // Unix milliseconds
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// WSSubscribeRequest is the client -> server websocket control message.
// Channels use the form "marketdata@SYMBOL" and "trades@SYMBOL".
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// WSEvent is the server -> client websocket envelope.
type WSEvent struct {
	Channel string      `json:"channel"`
	Data    interface{} `json:"data"`
}
