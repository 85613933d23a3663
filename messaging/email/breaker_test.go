package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

type stubSender struct {
	calls int
	send  func(to string) (*Delivery, error)
}

func (s *stubSender) Send(_ context.Context, to, _, _ string) (*Delivery, error) {
	s.calls++
	return s.send(to)
}

func testBreakerConfig() *BreakerConfig {
	return &BreakerConfig{Enabled: true, MinRequests: 3, Ratio: 0.5, Timeout: time.Minute}
}

func TestBreakerTripsOnCredentialFaults(t *testing.T) {
	stub := &stubSender{send: func(string) (*Delivery, error) {
		return &Delivery{StatusCode: http.StatusUnauthorized}, fmt.Errorf("%w: status code 401", ErrUnauthorized)
	}}
	b := NewBreakerSender("test", stub, testBreakerConfig())

	for i := 0; i < 3; i++ {
		if _, err := b.Send(context.Background(), "a@example.com", "s", "h"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Send() error = %v, want ErrUnauthorized", err)
		}
	}
	if b.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", b.State())
	}

	_, err := b.Send(context.Background(), "a@example.com", "s", "h")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Send() error = %v, want ErrProviderUnavailable", err)
	}
	if stub.calls != 3 {
		t.Errorf("provider calls = %d, want 3", stub.calls)
	}
}

func TestBreakerIgnoresMessageFailures(t *testing.T) {
	failures := []struct {
		name string
		d    *Delivery
		err  error
	}{
		{"smtp rcpt rejected", &Delivery{Reply: 550}, errors.New("smtp rcpt bad@example.com: 550 no such user")},
		{"smtp rcpt without reply", nil, errors.New("smtp rcpt bad@example.com: 550 no such user")},
		{"api rejected", &Delivery{StatusCode: http.StatusBadRequest}, errors.New("invalid address")},
		{"server error", &Delivery{StatusCode: http.StatusBadGateway}, errors.New("bad gateway")},
		{"timeout", nil, context.DeadlineExceeded},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSender{send: func(string) (*Delivery, error) { return tt.d, tt.err }}
			b := NewBreakerSender("test", stub, testBreakerConfig())

			for i := 0; i < 10; i++ {
				d, err := b.Send(context.Background(), "bad@example.com", "s", "h")
				if !errors.Is(err, tt.err) {
					t.Fatalf("Send() error = %v, want %v", err, tt.err)
				}
				if d != tt.d {
					t.Fatalf("Send() delivery = %+v, want %+v", d, tt.d)
				}
			}
			if b.State() != gobreaker.StateClosed {
				t.Errorf("State() = %v, want closed", b.State())
			}
			if stub.calls != 10 {
				t.Errorf("provider calls = %d, want 10", stub.calls)
			}
		})
	}
}

func TestBreakerRejectedRecipientsDoNotBlockOthers(t *testing.T) {
	stub := &stubSender{send: func(to string) (*Delivery, error) {
		if to[:3] == "bad" {
			return &Delivery{Reply: 550}, fmt.Errorf("smtp rcpt %s: 550 no such user", to)
		}
		return &Delivery{Reply: 250}, nil
	}}
	b := NewBreakerSender("smtp", stub, DefaultBreakerConfig())

	delivered := 0
	for i := 0; i < 5; i++ {
		_, _ = b.Send(context.Background(), fmt.Sprintf("bad%d@example.com", i), "s", "h")
	}
	for i := 0; i < 5; i++ {
		if _, err := b.Send(context.Background(), fmt.Sprintf("ok%d@example.com", i), "s", "h"); err == nil {
			delivered++
		}
	}
	if delivered != 5 {
		t.Errorf("delivered = %d, want 5", delivered)
	}
	if stub.calls != 10 {
		t.Errorf("provider calls = %d, want 10", stub.calls)
	}
}
