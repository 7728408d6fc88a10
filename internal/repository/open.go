package repository

import (
	"context"
	"fmt"

	"github.com/blog-content-api/internal/config"
	"github.com/blog-content-api/internal/database"
	"github.com/rs/zerolog"
)

// Open connects to the configured store, prepares its schema and returns the
// repositories together with a function that releases the connection.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Repositories, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m, err := database.NewMongo(&cfg.Mongo, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := m.EnsureIndexes(ctx); err != nil {
			m.Close(context.Background())
			return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		return NewMongo(m), func() error { return m.Close(context.Background()) }, nil

	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(cfg.Store.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		return New(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
