package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrProviderUnavailable is returned while the breaker rejects sends
var ErrProviderUnavailable = errors.New("email provider unavailable")

// BreakerConfig tunes the circuit breaker placed in front of a provider
type BreakerConfig struct {
	Enabled     bool          `json:"enabled" yaml:"enabled"`
	MinRequests uint32        `json:"min_requests" yaml:"min_requests"`
	Ratio       float64       `json:"ratio" yaml:"ratio"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultBreakerConfig returns the breaker settings used when none are configured
func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		Enabled:     true,
		MinRequests: 5,
		Ratio:       0.6,
		Timeout:     30 * time.Second,
	}
}

// BreakerSender stops calling a provider that keeps rejecting the
// configured credentials. Only ErrUnauthorized counts as a failure:
// rejected recipients, timeouts and connection errors concern a single
// message and never keep other recipients from being tried.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSender wraps next with a circuit breaker named name
func NewBreakerSender(name string, next Sender, cfg *BreakerConfig) *BreakerSender {
	if cfg == nil {
		cfg = DefaultBreakerConfig()
	}
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minRequests && failureRatio >= cfg.Ratio
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrUnauthorized)
		},
	})
	return &BreakerSender{next: next, cb: cb}
}

// State returns the breaker state
func (b *BreakerSender) State() gobreaker.State {
	return b.cb.State()
}

// Send implements Sender
func (b *BreakerSender) Send(ctx context.Context, to, subject, html string) (*Delivery, error) {
	var delivery *Delivery
	_, err := b.cb.Execute(func() (any, error) {
		d, err := b.next.Send(ctx, to, subject, html)
		delivery = d
		return nil, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return delivery, err
}
