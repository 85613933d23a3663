package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridConfig holds the configuration for SendGrid.
// Host overrides the API host and is empty in production.
type SendGridConfig struct {
	Key      string
	From     string
	FromName string
	Host     string
}

// SendGridSender implements Sender for SendGrid
type SendGridSender struct {
	Config *SendGridConfig
}

// Send posts one message to the SendGrid v3 mail API
func (s *SendGridSender) Send(ctx context.Context, to, subject, html string) (*Delivery, error) {
	from := mail.NewEmail(s.Config.FromName, s.Config.From)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), "", html)

	request := sendgrid.GetRequest(s.Config.Key, sendGridEndpoint, s.Config.Host)
	request.Method = http.MethodPost
	request.Body = mail.GetRequestBody(message)

	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("sendgrid request failed: %w", err)
	}

	delivery := &Delivery{
		ID:         http.Header(response.Headers).Get("X-Message-Id"),
		StatusCode: response.StatusCode,
	}
	switch {
	case response.StatusCode == http.StatusUnauthorized, response.StatusCode == http.StatusForbidden:
		return delivery, fmt.Errorf("%w: sendgrid status code %d", ErrUnauthorized, response.StatusCode)
	case response.StatusCode < 200 || response.StatusCode >= 300:
		return delivery, fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}
	return delivery, nil
}

func validateSendGridConfig(config *SendGridConfig) error {
	if config == nil || config.Key == "" || config.From == "" {
		return fmt.Errorf("%w: sendgrid requires key and from", ErrInvalidConfig)
	}
	return nil
}
