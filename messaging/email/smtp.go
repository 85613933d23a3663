package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// SMTPConfig holds the configuration for SMTP relay sending
type SMTPConfig struct {
	SMTPHost string
	SMTPPort string
	Username string
	Password string
	From     string
}

// SMTPSender implements Sender for an SMTP relay
type SMTPSender struct {
	Config *SMTPConfig
}

// Send delivers one message over SMTP, upgrading with STARTTLS when offered
func (s *SMTPSender) Send(ctx context.Context, to, subject, html string) (*Delivery, error) {
	addr := net.JoinHostPort(s.Config.SMTPHost, s.Config.SMTPPort)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.Config.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Config.SMTPHost}); err != nil {
			return nil, fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if s.Config.Username != "" {
		auth := smtp.PlainAuth("", s.Config.Username, s.Config.Password, s.Config.SMTPHost)
		if err := c.Auth(auth); err != nil {
			return replyDelivery(err), fmt.Errorf("%w: smtp auth: %v", ErrUnauthorized, err)
		}
	}

	if err := c.Mail(s.Config.From); err != nil {
		return replyDelivery(err), fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return replyDelivery(err), fmt.Errorf("smtp rcpt %s: %w", to, err)
	}
	w, err := c.Data()
	if err != nil {
		return replyDelivery(err), fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMessage(s.Config.From, to, subject, html, time.Now())); err != nil {
		return nil, fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return replyDelivery(err), fmt.Errorf("smtp data close: %w", err)
	}
	_ = c.Quit()

	return &Delivery{Reply: 250}, nil
}

// replyDelivery carries the server's reply code when err is an SMTP reply,
// or nil for connection level failures
func replyDelivery(err error) *Delivery {
	var reply *textproto.Error
	if errors.As(err, &reply) {
		return &Delivery{Reply: reply.Code}
	}
	return nil
}

// buildMessage renders RFC 5322 headers followed by the HTML body
func buildMessage(from, to, subject, html string, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil || config.SMTPHost == "" || config.SMTPPort == "" || config.From == "" {
		return fmt.Errorf("%w: smtp requires host, port and from", ErrInvalidConfig)
	}
	return nil
}
