// Package resilience wraps external providers in circuit breakers so a
// degraded calendar or mail backend cannot stall every dispatch.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

// BreakerConfig configures breaker behaviour for a wrapped provider.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive-failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

func newBreaker[T any](name string, cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// CalendarProvider wraps a services.CalendarProvider with a circuit
// breaker shared across its operations.
type CalendarProvider struct {
	inner   services.CalendarProvider
	breaker *gobreaker.CircuitBreaker[string]
}

// NewCalendarProvider wraps a calendar provider.
func NewCalendarProvider(inner services.CalendarProvider, cfg BreakerConfig, logger *slog.Logger) *CalendarProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CalendarProvider{
		inner:   inner,
		breaker: newBreaker[string]("calendar", cfg, logger),
	}
}

func (p *CalendarProvider) CreateEvent(ctx context.Context, req services.CreateEventRequest) (string, error) {
	return p.breaker.Execute(func() (string, error) {
		return p.inner.CreateEvent(ctx, req)
	})
}

func (p *CalendarProvider) UpdateEvent(ctx context.Context, externalID string, start, end time.Time) error {
	_, err := p.breaker.Execute(func() (string, error) {
		return "", p.inner.UpdateEvent(ctx, externalID, start, end)
	})
	return err
}

func (p *CalendarProvider) CancelEvent(ctx context.Context, externalID string) error {
	_, err := p.breaker.Execute(func() (string, error) {
		return "", p.inner.CancelEvent(ctx, externalID)
	})
	return err
}

// MessageProvider wraps a services.MessageProvider with a circuit breaker.
type MessageProvider struct {
	inner   services.MessageProvider
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewMessageProvider wraps a message provider.
func NewMessageProvider(inner services.MessageProvider, cfg BreakerConfig, logger *slog.Logger) *MessageProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageProvider{
		inner:   inner,
		breaker: newBreaker[struct{}]("mailer", cfg, logger),
	}
}

func (p *MessageProvider) Send(ctx context.Context, msg services.OutboundMessage) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.inner.Send(ctx, msg)
	})
	return err
}
