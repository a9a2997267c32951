package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists orders and the customer rows intake creates
// alongside them. Intake owns the customer upsert so the whole receive
// operation is one unit of work.
type Repository interface {
	// UpsertCustomer inserts a customer by email or refreshes the name
	// on conflict, returning the row id either way.
	UpsertCustomer(ctx context.Context, email, name string) (uuid.UUID, error)

	// ExistsByOrderID reports whether an order with the external id is
	// already stored.
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)

	Insert(ctx context.Context, o *Order) error

	// ListByCustomers returns all orders for the given customers,
	// newest first, keyed by customer id.
	ListByCustomers(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID][]*Order, error)
}
