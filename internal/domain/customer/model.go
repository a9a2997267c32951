package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/rxgate/rxgate/internal/domain/order"
)

// Customer is a row in the customers table.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// SearchResult is one customer in a search response, with its full
// order history nested newest-first. A customer with no orders appears
// with an empty array.
type SearchResult struct {
	CustomerID        uuid.UUID      `json:"customerId"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	CustomerCreatedAt time.Time      `json:"customerCreatedAt"`
	Orders            []*order.Order `json:"orders"`
}

// LookupResult is the outcome of a customer fetch: the upstream payload
// plus whether the triggered order push was confirmed in the queue.
type LookupResult struct {
	CustomerData   []byte
	OrderConfirmed bool
}
