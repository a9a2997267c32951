package customer

import "context"

// Repository reads customer rows.
type Repository interface {
	// Search returns customers whose name or email contains the query,
	// case-insensitive, newest first, capped at the given limit.
	Search(ctx context.Context, query string, limit int) ([]*Customer, error)
}
