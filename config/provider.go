package config

import (
	"time"

	"github.com/google/wire"
	"github.com/ncobase/remind/concurrency/worker"
)

// ProviderSet is the wire provider set for the config package.
// It provides the main *Config and the sub-configurations other
// packages depend on.
var ProviderSet = wire.NewSet(
	GetConfig,
	ProvideLoggerConfig,
	ProvideDataConfig,
	ProvideEmailConfig,
	ProvideReminderConfig,
	ProvideWorkerConfig,
)

// ProvideLoggerConfig provides the logger configuration.
func ProvideLoggerConfig(cfg *Config) *Logger {
	return cfg.Logger
}

// ProvideDataConfig provides the data layer configuration.
func ProvideDataConfig(cfg *Config) *Data {
	return cfg.Data
}

// ProvideEmailConfig provides the email configuration.
func ProvideEmailConfig(cfg *Config) *Email {
	return cfg.Email
}

// ProvideReminderConfig provides the reminder dispatch configuration.
func ProvideReminderConfig(cfg *Config) *Reminder {
	return cfg.Reminder
}

// ProvideWorkerConfig sizes the send pool from the reminder settings.
func ProvideWorkerConfig(r *Reminder) *worker.Config {
	cfg := worker.DefaultConfig()
	if r == nil {
		return cfg
	}
	if r.Workers > 0 {
		cfg.MaxWorkers = r.Workers
	}
	if r.QueueSize > 0 {
		cfg.QueueSize = r.QueueSize
	}
	if r.SendTimeout > 0 {
		cfg.TaskTimeout = r.SendTimeout + 5*time.Second
	}
	return cfg
}
