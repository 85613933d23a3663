//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/ncobase/remind/concurrency/worker"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/data"
	"github.com/ncobase/remind/handler"
	"github.com/ncobase/remind/logging/logger"
	"github.com/ncobase/remind/messaging/email"
	"github.com/ncobase/remind/service"
)

// InitializeApp wires up the HTTP application with all dependencies.
func InitializeApp() (*App, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		data.ProviderSet,
		email.ProviderSet,
		worker.ProviderSet,
		service.ProviderSet,
		handler.ProviderSet,
		NewApp,
	))
}

// InitializeReminder wires up the reminder dispatcher for one-shot runs.
func InitializeReminder() (*service.ReminderService, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		data.ProviderSet,
		email.ProviderSet,
		worker.ProviderSet,
		service.NewReminderService,
	))
}
