package engine

import "github.com/quantfold/execore/pkg/engine/orderbook"

// bookRegistry maps symbol to its order book, creating books lazily on first
// order. Books are never removed; they live for the engine's lifetime.
//
// The registry carries no lock of its own: the engine's coarse lock guards
// lookup and creation, while matching inside a book runs under that book's
// finer lock.
type bookRegistry struct {
	books map[string]*orderbook.Book
}

func newBookRegistry() *bookRegistry {
	return &bookRegistry{books: make(map[string]*orderbook.Book)}
}

// getOrCreate returns the book for symbol, creating it on first use. Repeat
// calls return the same instance.
func (r *bookRegistry) getOrCreate(symbol string) *orderbook.Book {
	if b, ok := r.books[symbol]; ok {
		return b
	}
	b := orderbook.New(symbol)
	r.books[symbol] = b
	return b
}

// lookup returns the book for symbol without creating one.
func (r *bookRegistry) lookup(symbol string) (*orderbook.Book, bool) {
	b, ok := r.books[symbol]
	return b, ok
}
