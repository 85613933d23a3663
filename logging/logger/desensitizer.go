package logger

import (
	"regexp"
	"strings"

	"github.com/ncobase/remind/logging/logger/config"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

const fixedMaskLength = 6

// Desensitizer masks sensitive values in log fields
type Desensitizer struct {
	config *config.Desensitization
	fields map[string]struct{}
	mask   string
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	d := &Desensitizer{
		config: cfg,
		fields: make(map[string]struct{}, len(cfg.SensitiveFields)),
		mask:   cfg.MaskChar,
	}
	if d.mask == "" {
		d.mask = "*"
	}
	for _, f := range cfg.SensitiveFields {
		d.fields[strings.ToLower(f)] = struct{}{}
	}
	return d
}

// DesensitizeFields returns a copy of fields with sensitive values masked
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}

	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		switch {
		case d.isSensitiveField(key):
			result[key] = strings.Repeat(d.mask, fixedMaskLength)
		case d.config.MaskEmails:
			result[key] = d.maskEmails(value)
		default:
			result[key] = value
		}
	}
	return result
}

// isSensitiveField matches "api_key" and also suffixed names such as "sendgrid_api_key"
func (d *Desensitizer) isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	if _, ok := d.fields[key]; ok {
		return true
	}
	for f := range d.fields {
		if strings.HasSuffix(key, "_"+f) {
			return true
		}
	}
	return false
}

func (d *Desensitizer) maskEmails(value any) any {
	switch v := value.(type) {
	case string:
		return emailPattern.ReplaceAllStringFunc(v, d.maskEmail)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = emailPattern.ReplaceAllStringFunc(s, d.maskEmail)
		}
		return out
	default:
		return value
	}
}

// maskEmail keeps the first character of the local part and the domain
func (d *Desensitizer) maskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	return email[:1] + strings.Repeat(d.mask, 3) + email[at:]
}
