package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerSettings configures when the circuit opens and how long it stays open
type BreakerSettings struct {
	MaxFailures uint32        // consecutive failures that open the circuit
	Cooldown    time.Duration // open duration before a trial request
}

// DefaultBreakerSettings returns default breaker settings
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxFailures: 5,
		Cooldown:    30 * time.Second,
	}
}

// BreakerCompleter wraps a Completer with a circuit breaker. While the
// circuit is open calls fail immediately with gobreaker.ErrOpenState.
type BreakerCompleter struct {
	next    Completer
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerCompleter wraps next with a circuit breaker
func NewBreakerCompleter(next Completer, settings BreakerSettings, logger *zap.Logger) *BreakerCompleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = DefaultBreakerSettings().MaxFailures
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     settings.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		// Cancelled requests belong to stopped sessions, not to a failing provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Completion circuit breaker changed state",
				zap.String("provider", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})

	return &BreakerCompleter{
		next:    next,
		breaker: breaker,
	}
}

// Complete forwards the prompt unless the circuit is open
func (b *BreakerCompleter) Complete(ctx context.Context, prompt Prompt) (string, error) {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Name returns the wrapped provider name
func (b *BreakerCompleter) Name() string {
	return b.next.Name()
}

// State returns the current circuit state
func (b *BreakerCompleter) State() gobreaker.State {
	return b.breaker.State()
}
