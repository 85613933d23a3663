// Package email sends HTML messages through SendGrid, Mailgun or plain SMTP.
package email

import (
	"context"
	"errors"
)

var (
	// ErrInvalidConfig is returned when a provider configuration is incomplete
	ErrInvalidConfig = errors.New("invalid email configuration")
	// ErrNoProvider is returned when no known provider is configured
	ErrNoProvider = errors.New("email provider not configured")
	// ErrUnauthorized marks a provider rejecting the configured credentials
	ErrUnauthorized = errors.New("email provider rejected credentials")
)

// Email holds the configuration for all email providers
type Email struct {
	Provider string          `json:"provider" yaml:"provider"`
	SendGrid *SendGridConfig `json:"sendgrid" yaml:"sendgrid"`
	Mailgun  *MailgunConfig  `json:"mailgun" yaml:"mailgun"`
	SMTP     *SMTPConfig     `json:"smtp" yaml:"smtp"`
	Breaker  *BreakerConfig  `json:"breaker" yaml:"breaker"`
}

// Delivery is the transport's answer for one message. Senders return it
// alongside the error when the provider answered with a rejection.
// StatusCode is the HTTP status of API providers and Reply the SMTP reply
// code; each is zero for the other kind of transport.
type Delivery struct {
	ID         string `json:"id,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Reply      int    `json:"reply,omitempty"`
}

// Config is a generic email configuration interface
type Config any

// Sender delivers a single HTML message to one recipient
type Sender interface {
	Send(ctx context.Context, to, subject, html string) (*Delivery, error)
}

// validateEmailConfig validates the common email configuration
func validateEmailConfig(config Config) error {
	switch c := config.(type) {
	case *SendGridConfig:
		return validateSendGridConfig(c)
	case *MailgunConfig:
		return validateMailgunConfig(c)
	case *SMTPConfig:
		return validateSMTPConfig(c)
	default:
		return ErrInvalidConfig
	}
}

// NewSender returns a new Sender
func NewSender(config Config) (Sender, error) {
	if err := validateEmailConfig(config); err != nil {
		return nil, err
	}
	switch c := config.(type) {
	case *SendGridConfig:
		return &SendGridSender{Config: c}, nil
	case *MailgunConfig:
		return &MailgunSender{Config: c}, nil
	case *SMTPConfig:
		return &SMTPSender{Config: c}, nil
	default:
		return nil, errors.New("create email sender failed")
	}
}
