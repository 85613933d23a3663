// Package data manages the MongoDB connection for the task store.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/ncobase/remind/config"
	"github.com/ncobase/remind/data/repository"
	"github.com/ncobase/remind/logging/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client   *mongo.Client
	db       *mongo.Database
	TaskRepo repository.TaskRepository
}

// New connects to MongoDB and verifies the connection with a ping.
func New(cfg *config.Data, logger *logger.Logger) (*Data, error) {
	if cfg == nil || cfg.MongoDB == nil || cfg.MongoDB.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	m := cfg.MongoDB

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI).SetTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(m.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn(ctx, "failed to create task indexes", "error", err)
	}

	logger.Info(ctx, "connected to MongoDB", "uri", m.URI, "database", m.Database)

	return &Data{
		client:   client,
		db:       db,
		TaskRepo: repository.NewTaskRepository(db, logger),
	}, nil
}

// Close closes the MongoDB connection.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// DB returns the MongoDB database instance.
func (d *Data) DB() *mongo.Database {
	return d.db
}
