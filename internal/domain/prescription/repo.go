package prescription

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists prescriptions and resolves the customer and order
// references a submission names. The resolution queries live here so the
// whole submit runs against one transaction.
type Repository interface {
	// FindCustomerIDByEmail returns the customer row id, or uuid.Nil
	// with no error when the email is unknown.
	FindCustomerIDByEmail(ctx context.Context, email string) (uuid.UUID, error)

	// FindOrderID resolves an external order id scoped to a customer,
	// or uuid.Nil with no error when absent.
	FindOrderID(ctx context.Context, externalID string, customerID uuid.UUID) (uuid.UUID, error)

	Insert(ctx context.Context, p *Prescription) (uuid.UUID, error)

	// List returns prescriptions joined to customer and order data,
	// newest first, filtered by customer id and/or external order id.
	List(ctx context.Context, customerID *uuid.UUID, orderExternalID *string, limit, offset int) ([]*Row, error)
}
