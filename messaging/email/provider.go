package email

import (
	"fmt"

	"github.com/google/wire"
)

// ProviderSet is the wire provider set for the email package.
var ProviderSet = wire.NewSet(ProvideSender)

// ProvideSender creates the Sender selected by cfg.Provider, behind a
// circuit breaker unless cfg.Breaker disables it.
func ProvideSender(cfg *Email) (Sender, error) {
	if cfg == nil {
		return nil, ErrNoProvider
	}

	var (
		sender Sender
		err    error
	)
	switch cfg.Provider {
	case "sendgrid":
		sender, err = NewSender(cfg.SendGrid)
	case "mailgun":
		sender, err = NewSender(cfg.Mailgun)
	case "smtp":
		sender, err = NewSender(cfg.SMTP)
	default:
		return nil, fmt.Errorf("%w: %q", ErrNoProvider, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker != nil && !cfg.Breaker.Enabled {
		return sender, nil
	}
	return NewBreakerSender(cfg.Provider, sender, cfg.Breaker), nil
}
