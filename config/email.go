package config

import (
	"github.com/ncobase/remind/messaging/email"
	"github.com/spf13/viper"
)

// Email is the email transport configuration
type Email = email.Email

// getEmailConfig returns the email configuration. The provider defaults
// to sendgrid when only a SendGrid key is present.
func getEmailConfig(v *viper.Viper) *Email {
	cfg := &Email{
		Provider: v.GetString("email.provider"),
		SendGrid: &email.SendGridConfig{
			Key:      v.GetString("email.sendgrid.key"),
			From:     v.GetString("email.sendgrid.from"),
			FromName: v.GetString("email.sendgrid.from_name"),
			Host:     v.GetString("email.sendgrid.host"),
		},
		Mailgun: &email.MailgunConfig{
			Key:     v.GetString("email.mailgun.key"),
			Domain:  v.GetString("email.mailgun.domain"),
			From:    v.GetString("email.mailgun.from"),
			APIBase: v.GetString("email.mailgun.api_base"),
		},
		SMTP: &email.SMTPConfig{
			SMTPHost: v.GetString("email.smtp.host"),
			SMTPPort: getStringOrDefault(v, "email.smtp.port", "587"),
			Username: v.GetString("email.smtp.username"),
			Password: v.GetString("email.smtp.password"),
			From:     v.GetString("email.smtp.from"),
		},
		Breaker: getBreakerConfig(v),
	}
	if cfg.Provider == "" && cfg.SendGrid.Key != "" {
		cfg.Provider = "sendgrid"
	}
	return cfg
}

// getBreakerConfig returns the provider circuit breaker settings
func getBreakerConfig(v *viper.Viper) *email.BreakerConfig {
	d := email.DefaultBreakerConfig()
	enabled := d.Enabled
	if v.IsSet("email.breaker.enabled") {
		enabled = v.GetBool("email.breaker.enabled")
	}
	ratio := d.Ratio
	if v.IsSet("email.breaker.ratio") {
		ratio = v.GetFloat64("email.breaker.ratio")
	}
	return &email.BreakerConfig{
		Enabled:     enabled,
		MinRequests: uint32(getIntOrDefault(v, "email.breaker.min_requests", int(d.MinRequests))),
		Ratio:       ratio,
		Timeout:     getDurationOrDefault(v, "email.breaker.timeout", d.Timeout),
	}
}
