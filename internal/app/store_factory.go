package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
	"github.com/felixgeelhaar/tascade/internal/recommendation/infrastructure/persistence"
	"github.com/felixgeelhaar/tascade/pkg/config"
)

// NewDocumentStore creates the document store selected by the store
// driver configuration.
func NewDocumentStore(ctx context.Context, cfg *config.Config) (domain.DocumentStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverJSON:
		return persistence.NewJSONStore(cfg.DataDir)

	case config.StoreDriverSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return persistence.NewSQLiteStore(filepath.Join(cfg.DataDir, "tascade.db"))

	case config.StoreDriverPostgres:
		return persistence.NewPostgresStore(ctx, cfg.DatabaseURL)

	case config.StoreDriverRedis:
		return persistence.NewRedisStore(ctx, cfg.RedisURL)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
