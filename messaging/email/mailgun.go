package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the configuration for Mailgun.
// APIBase selects the region, e.g. https://api.eu.mailgun.net/v3.
type MailgunConfig struct {
	Key     string
	Domain  string
	From    string
	APIBase string
}

// MailgunSender implements Sender for Mailgun
type MailgunSender struct {
	Config *MailgunConfig
}

// Send queues one message with Mailgun
func (s *MailgunSender) Send(ctx context.Context, to, subject, html string) (*Delivery, error) {
	mg := mailgun.NewMailgun(s.Config.Domain, s.Config.Key)
	if s.Config.APIBase != "" {
		mg.SetAPIBase(s.Config.APIBase)
	}

	message := mg.NewMessage(s.Config.From, subject, "", to)
	message.SetHtml(html)

	_, id, err := mg.Send(ctx, message)
	if err != nil {
		var ue *mailgun.UnexpectedResponseError
		if !errors.As(err, &ue) {
			return nil, fmt.Errorf("mailgun send failed: %w", err)
		}
		delivery := &Delivery{StatusCode: ue.Actual}
		if ue.Actual == http.StatusUnauthorized || ue.Actual == http.StatusForbidden {
			return delivery, fmt.Errorf("%w: mailgun status code %d", ErrUnauthorized, ue.Actual)
		}
		return delivery, fmt.Errorf("mailgun send failed: %w", err)
	}
	return &Delivery{ID: id, StatusCode: http.StatusOK}, nil
}

func validateMailgunConfig(config *MailgunConfig) error {
	if config == nil || config.Key == "" || config.Domain == "" || config.From == "" {
		return fmt.Errorf("%w: mailgun requires key, domain and from", ErrInvalidConfig)
	}
	return nil
}
