package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
	Sentry          *Sentry          `json:"sentry" yaml:"sentry"`
}

// Sentry config struct. Error entries are reported when Endpoint is set.
type Sentry struct {
	Endpoint    string  `json:"endpoint" yaml:"endpoint"`
	Environment string  `json:"environment" yaml:"environment"`
	Release     string  `json:"release" yaml:"release"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate"`
}

// Desensitization holds masking settings for log fields
type Desensitization struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	SensitiveFields []string `json:"sensitive_fields" yaml:"sensitive_fields"`
	MaskEmails      bool     `json:"mask_emails" yaml:"mask_emails"`
	MaskChar        string   `json:"mask_char" yaml:"mask_char"`
}

var defaultSensitiveFields = []string{
	"password", "secret", "token", "api_key", "apikey", "key", "uri",
}

const (
	defaultLevel    = 4 // logrus.InfoLevel
	defaultFormat   = "json"
	defaultOutput   = "stdout"
	defaultMaskChar = "*"
)

// Default returns the configuration used when no logger section exists
func Default() *Config {
	return &Config{
		Level:  defaultLevel,
		Format: defaultFormat,
		Output: defaultOutput,
		Desensitization: &Desensitization{
			Enabled:         true,
			SensitiveFields: defaultSensitiveFields,
			MaskChar:        defaultMaskChar,
		},
	}
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	cfg := Default()
	cfg.Sentry = getSentryConfig(v)
	if !v.IsSet("logger") {
		return cfg
	}

	if v.IsSet("logger.level") {
		cfg.Level = v.GetInt("logger.level")
	}
	if f := v.GetString("logger.format"); f != "" {
		cfg.Format = strings.ToLower(f)
	}
	if o := v.GetString("logger.output"); o != "" {
		cfg.Output = strings.ToLower(o)
	}
	cfg.OutputFile = v.GetString("logger.output_file")

	d := cfg.Desensitization
	if v.IsSet("logger.desensitization.enabled") {
		d.Enabled = v.GetBool("logger.desensitization.enabled")
	}
	if fields := v.GetStringSlice("logger.desensitization.sensitive_fields"); len(fields) > 0 {
		d.SensitiveFields = fields
	}
	d.MaskEmails = v.GetBool("logger.desensitization.mask_emails")
	if c := v.GetString("logger.desensitization.mask_char"); c != "" {
		d.MaskChar = c
	}

	return cfg
}

// getSentryConfig reads the observes.sentry section, or nil without an endpoint
func getSentryConfig(v *viper.Viper) *Sentry {
	endpoint := v.GetString("observes.sentry.endpoint")
	if endpoint == "" {
		return nil
	}
	rate := 1.0
	if v.IsSet("observes.sentry.sample_rate") {
		rate = v.GetFloat64("observes.sentry.sample_rate")
	}
	return &Sentry{
		Endpoint:    endpoint,
		Environment: v.GetString("observes.sentry.environment"),
		Release:     v.GetString("observes.sentry.release"),
		SampleRate:  rate,
	}
}
