package order

import "sync"

// MemoryQueue buffers orders pushed by the upstream automation until the
// client drains them. A drain is at-most-once delivery: if the client
// drops the response, those orders are gone. Acceptable for a
// single-instance deployment; documented as a known limitation.
type MemoryQueue struct {
	mu     sync.Mutex
	orders []*Order
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends an order. Duplicate external ids are allowed; the
// persistent intake path is where dedup happens.
func (q *MemoryQueue) Enqueue(o *Order) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.orders = append(q.orders, o)
}

// DrainAll returns all queued orders and clears the queue atomically.
func (q *MemoryQueue) DrainAll() []*Order {
	q.mu.Lock()
	defer q.mu.Unlock()
	orders := q.orders
	q.orders = nil
	if orders == nil {
		orders = []*Order{}
	}
	return orders
}

// Contains reports whether any queued order belongs to the given
// customer email, without disturbing the queue. Used by the customer
// lookup flow to confirm the automation's push has landed.
func (q *MemoryQueue) Contains(email string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, o := range q.orders {
		if o.CustomerEmail == email {
			return true
		}
	}
	return false
}

// Len returns the number of queued orders.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.orders)
}
