package orderbook

// Side is the direction of an order.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Order is one unit of trading interest. ID is empty until the engine assigns
// one at submission. Qty is decremented in place while the order rests and is
// partially consumed; everything else is immutable after entry.
type Order struct {
	ID     string
	Symbol string
	Side   Side
	Price  float64
	Qty    int64

	// seq orders equal-price entries by arrival. Assigned by the book.
	seq uint64
}

// Fill records one match produced by a matching pass. The taker is the order
// that entered the book later of the two.
type Fill struct {
	TakerID string
	MakerID string
	Price   float64
	Qty     int64
}
