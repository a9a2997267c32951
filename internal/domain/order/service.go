package order

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/db"
	"github.com/rxgate/rxgate/pkg/apperror"
)

// ReceiveResult reports what intake did with an order.
type ReceiveResult struct {
	OrderID   string
	Duplicate bool
}

// Service implements persistent order intake: upsert the customer and
// insert the order in a single transaction, skipping orders whose
// external id has been seen before.
type Service struct {
	repo   Repository
	inTx   func(ctx context.Context, fn func(ctx context.Context) error) error
	logger zerolog.Logger
}

func NewService(repo Repository, pool *pgxpool.Pool, logger zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.InTx(ctx, pool, fn)
		},
		logger: logger.With().Str("component", "order-intake").Logger(),
	}
}

// Receive validates and persists an incoming order. A duplicate external
// id commits without inserting and reports Duplicate. The exists check
// and insert race under concurrent intake of the same id; the UNIQUE
// constraint on orders.order_id is the backstop, surfacing the loser as
// an internal error.
func (s *Service) Receive(ctx context.Context, o *Order) (*ReceiveResult, error) {
	if missing := o.MissingRequired(); len(missing) > 0 {
		return nil, apperror.MissingFields(missing)
	}

	result := &ReceiveResult{OrderID: o.OrderID}
	err := s.inTx(ctx, func(ctx context.Context) error {
		customerID, err := s.repo.UpsertCustomer(ctx, o.CustomerEmail, o.CustomerName)
		if err != nil {
			return apperror.Internal("upserting customer", err)
		}

		exists, err := s.repo.ExistsByOrderID(ctx, o.OrderID)
		if err != nil {
			return apperror.Internal("checking for existing order", err)
		}
		if exists {
			result.Duplicate = true
			return nil
		}

		o.CustomerID = customerID
		if err := s.repo.Insert(ctx, o); err != nil {
			return apperror.Internal("inserting order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Duplicate {
		s.logger.Info().Str("order_id", o.OrderID).Msg("order already exists, skipping")
	} else {
		s.logger.Info().Str("order_id", o.OrderID).Str("email", o.CustomerEmail).Msg("order stored")
	}
	return result, nil
}
