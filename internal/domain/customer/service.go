package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rxgate/rxgate/internal/domain/order"
	"github.com/rxgate/rxgate/pkg/apperror"
)

// searchLimit caps how many customers one search returns.
const searchLimit = 50

// Service answers customer searches with nested order history.
type Service struct {
	repo   Repository
	orders order.Repository
}

func NewService(repo Repository, orders order.Repository) *Service {
	return &Service{repo: repo, orders: orders}
}

// Search finds customers by name or email substring and attaches each
// customer's orders, newest first. An empty or whitespace-only query is
// rejected.
func (s *Service) Search(ctx context.Context, query string) ([]*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.Validation("Search query is required")
	}

	customers, err := s.repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, apperror.Internal("searching customers", err)
	}

	ids := make([]uuid.UUID, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	ordersByCustomer, err := s.orders.ListByCustomers(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("loading order history", err)
	}

	results := make([]*SearchResult, len(customers))
	for i, c := range customers {
		orders := ordersByCustomer[c.ID]
		if orders == nil {
			orders = []*order.Order{}
		}
		results[i] = &SearchResult{
			CustomerID:        c.ID,
			Email:             c.Email,
			Name:              c.Name,
			CustomerCreatedAt: c.CreatedAt,
			Orders:            orders,
		}
	}
	return results, nil
}
