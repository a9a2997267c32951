package customer

import (
	"context"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/webhook"
	"github.com/rxgate/rxgate/pkg/apperror"
)

// emailPattern is deliberately permissive: anything shaped like
// local@domain.tld passes, deeper validation is the upstream's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// OrderQueue is the slice of queue behavior the fetcher needs: a
// non-destructive check that the automation's order push has landed.
type OrderQueue interface {
	Contains(email string) bool
}

// Poster posts JSON payloads to a webhook endpoint.
type Poster interface {
	Post(ctx context.Context, name, rawURL string, payload any) (*webhook.Response, error)
}

// Fetcher proxies customer lookups to the automation webhook, then polls
// the order queue until the order the automation pushes back is visible.
type Fetcher struct {
	poster       Poster
	queue        OrderQueue
	webhookURL   string
	pollAttempts int
	pollInterval time.Duration
	logger       zerolog.Logger
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewFetcher(poster Poster, queue OrderQueue, webhookURL string, pollAttempts int, pollInterval time.Duration, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		poster:       poster,
		queue:        queue,
		webhookURL:   webhookURL,
		pollAttempts: pollAttempts,
		pollInterval: pollInterval,
		logger:       logger.With().Str("component", "customer-fetch").Logger(),
		sleep:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fetch validates the email, triggers the automation webhook, and waits
// for the pushed order to appear in the queue. Poll exhaustion is not an
// error: the caller gets the upstream payload with OrderConfirmed false.
func (f *Fetcher) Fetch(ctx context.Context, email string) (*LookupResult, error) {
	if email == "" {
		return nil, apperror.Validation("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("Invalid email format")
	}

	resp, err := f.poster.Post(ctx, "customer-lookup", f.webhookURL, map[string]string{"email": email})
	if err != nil {
		return nil, err
	}

	result := &LookupResult{CustomerData: resp.Body}
	for attempt := 1; attempt <= f.pollAttempts; attempt++ {
		if f.queue.Contains(email) {
			result.OrderConfirmed = true
			return result, nil
		}
		if attempt < f.pollAttempts {
			if err := f.sleep(ctx, f.pollInterval); err != nil {
				break
			}
		}
	}

	f.logger.Warn().Str("email", email).
		Int("attempts", f.pollAttempts).
		Msg("order not confirmed in queue, proceeding with customer data")
	return result, nil
}
