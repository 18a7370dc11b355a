package engine

// subscriptionHub keeps per-symbol ordered observer lists for the two event
// streams. Subscribe appends (duplicates accumulate; deduplication is the
// caller's problem), unsubscribe drops the whole list for a symbol and is
// idempotent. The engine's coarse lock guards all access.
type subscriptionHub struct {
	marketData map[string][]MarketDataFunc
	trades     map[string][]TradeFunc
}

func newSubscriptionHub() *subscriptionHub {
	return &subscriptionHub{
		marketData: make(map[string][]MarketDataFunc),
		trades:     make(map[string][]TradeFunc),
	}
}

func (h *subscriptionHub) subscribeMarketData(symbol string, fn MarketDataFunc) {
	h.marketData[symbol] = append(h.marketData[symbol], fn)
}

func (h *subscriptionHub) unsubscribeMarketData(symbol string) {
	delete(h.marketData, symbol)
}

func (h *subscriptionHub) subscribeTrades(symbol string, fn TradeFunc) {
	h.trades[symbol] = append(h.trades[symbol], fn)
}

func (h *subscriptionHub) unsubscribeTrades(symbol string) {
	delete(h.trades, symbol)
}

// tradeSubscribers returns a snapshot of the trade observer list for symbol,
// so fills can be published after the engine lock is released without losing
// registration order.
func (h *subscriptionHub) tradeSubscribers(symbol string) []TradeFunc {
	subs := h.trades[symbol]
	if len(subs) == 0 {
		return nil
	}
	out := make([]TradeFunc, len(subs))
	copy(out, subs)
	return out
}
