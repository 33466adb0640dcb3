package catalog

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/metrics"
	"github.com/facilpersianas/blindquote/pkg/errors"
)

// VariantFetcher is satisfied by every catalog source
type VariantFetcher interface {
	FetchVariants(ctx context.Context, productIDs []string) ([]domain.FamilyVariants, error)
}

// BreakerSettings tunes the catalog circuit breaker
type BreakerSettings struct {
	Name        string
	MaxRequests uint32        // requests let through while half-open
	Interval    time.Duration // window for failure counts
	Timeout     time.Duration // open state duration before probing
}

// DefaultBreakerSettings are used for zero fields
var DefaultBreakerSettings = BreakerSettings{
	Name:        "catalog",
	MaxRequests: 3,
	Interval:    15 * time.Second,
	Timeout:     30 * time.Second,
}

// BreakerFetcher fails fast once the wrapped fetcher keeps failing
type BreakerFetcher struct {
	next VariantFetcher
	cb   *gobreaker.CircuitBreaker
	name string
}

// NewBreakerFetcher wraps next with a circuit breaker
func NewBreakerFetcher(next VariantFetcher, settings BreakerSettings, logger *zap.Logger) *BreakerFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Name == "" {
		settings.Name = DefaultBreakerSettings.Name
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = DefaultBreakerSettings.MaxRequests
	}
	if settings.Interval == 0 {
		settings.Interval = DefaultBreakerSettings.Interval
	}
	if settings.Timeout == 0 {
		settings.Timeout = DefaultBreakerSettings.Timeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// cancelled callers say nothing about upstream health
			return err == nil || stderrors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			logger.Info("Circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(settings.Name).Set(0)

	return &BreakerFetcher{next: next, cb: cb, name: settings.Name}
}

// FetchVariants calls the wrapped fetcher unless the circuit is open
func (b *BreakerFetcher) FetchVariants(ctx context.Context, productIDs []string) ([]domain.FamilyVariants, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.FetchVariants(ctx, productIDs)
	})
	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &errors.ErrTransport{Op: "fetch catalog variants", Err: err}
		}
		return nil, err
	}
	families, _ := result.([]domain.FamilyVariants)
	return families, nil
}

// State returns the breaker state name
func (b *BreakerFetcher) State() string {
	return b.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
