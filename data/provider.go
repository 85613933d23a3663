package data

import (
	"context"

	"github.com/google/wire"
	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
)

// ProviderSet is the wire provider set for the data package.
var ProviderSet = wire.NewSet(ProvideData, ProvideTaskRepository)

// ProvideData connects the data layer. The cleanup function disconnects
// the MongoDB client.
func ProvideData(cfg *config.Data, l *logger.Logger) (*Data, func(), error) {
	d, err := New(cfg, l)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := d.Close(); err != nil {
			l.Error(context.Background(), "failed to close MongoDB", "error", err)
		}
	}
	return d, cleanup, nil
}

// ProvideTaskRepository exposes the task repository of d.
func ProvideTaskRepository(d *Data) repository.TaskRepository {
	return d.TaskRepo
}
