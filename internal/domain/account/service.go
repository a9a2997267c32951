package account

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/auth"
	"github.com/rxgate/rxgate/pkg/apperror"
)

// Service assigns clinical roles to users.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With().Str("component", "account").Logger(),
	}
}

// SetRole writes the role into the user's public metadata at the
// identity provider. Setting the same role again is a no-op success on
// the provider side, so the call is idempotent.
func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	if userID == "" {
		return apperror.Unauthorized("Unauthorized")
	}
	if !auth.ValidRole(role) {
		return apperror.Validation(`Invalid role. Must be "doctor" or "nurse"`)
	}

	if err := s.provider.UpdateRole(ctx, userID, role); err != nil {
		return apperror.Upstream(fmt.Sprintf("updating role for user %s", userID), err)
	}

	s.logger.Info().Str("user_id", userID).Str("role", role).Msg("role updated")
	return nil
}
