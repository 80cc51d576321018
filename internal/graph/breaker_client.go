package graph

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes BreakerClient.
type BreakerSettings struct {
	Name string
	// MaxRequests is how many trial calls a half-open breaker lets through.
	MaxRequests uint32
	// Interval clears failure counts while closed; zero never clears.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

// DefaultBreakerSettings returns conservative settings for a graph backend.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "graph",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      5,
		FailureThreshold: 0.8,
	}
}

// BreakerClient fails fast with gobreaker.ErrOpenState once the wrapped
// client keeps failing. Context cancellation does not count as a failure.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps next.
func NewBreakerClient(next Client, s BreakerSettings, logger *slog.Logger) *BreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("graph circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

// State reports the breaker state for health checks.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return b.guard(func() (Result, error) { return b.next.ExecuteWrite(ctx, cypher, params) })
}

func (b *BreakerClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return b.guard(func() (Result, error) { return b.next.ExecuteRead(ctx, cypher, params) })
}

func (b *BreakerClient) VerifyConnectivity(ctx context.Context) error {
	_, err := b.guard(func() (Result, error) { return Result{}, b.next.VerifyConnectivity(ctx) })
	return err
}

// Close bypasses the breaker so shutdown always reaches the driver.
func (b *BreakerClient) Close(ctx context.Context) error {
	return b.next.Close(ctx)
}

func (b *BreakerClient) guard(fn func() (Result, error)) (Result, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return Result{}, err
	}
	return out.(Result), nil
}
