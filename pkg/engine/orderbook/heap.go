package orderbook

// bidQueue implements heap.Interface over resting buy orders: highest price
// on top, ties broken by arrival order. The heap owns its orders; matching
// mutates Qty in place through the top element only, which never disturbs the
// (price, seq) ordering.
type bidQueue []*Order

func (q bidQueue) Len() int { return len(q) }
func (q bidQueue) Less(i, j int) bool {
	if q[i].Price != q[j].Price {
		return q[i].Price > q[j].Price
	}
	return q[i].seq < q[j].seq
}
func (q bidQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *bidQueue) Push(x interface{}) {
	*q = append(*q, x.(*Order))
}

func (q *bidQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return x
}

// peek returns the best bid without removing it. Callers must check Len.
func (q bidQueue) peek() *Order { return q[0] }

// askQueue implements heap.Interface over resting sell orders: lowest price
// on top, ties broken by arrival order.
type askQueue []*Order

func (q askQueue) Len() int { return len(q) }
func (q askQueue) Less(i, j int) bool {
	if q[i].Price != q[j].Price {
		return q[i].Price < q[j].Price
	}
	return q[i].seq < q[j].seq
}
func (q askQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *askQueue) Push(x interface{}) {
	*q = append(*q, x.(*Order))
}

func (q *askQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return x
}

func (q askQueue) peek() *Order { return q[0] }
