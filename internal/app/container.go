// Package app wires configuration, storage, events, and the
// recommendation services into one container shared by the entrypoints.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/tascade/internal/recommendation/application"
	"github.com/felixgeelhaar/tascade/internal/recommendation/application/services"
	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
	"github.com/felixgeelhaar/tascade/internal/recommendation/factor"
	"github.com/felixgeelhaar/tascade/internal/recommendation/infrastructure/tasks"
	"github.com/felixgeelhaar/tascade/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tascade/pkg/config"
	"github.com/felixgeelhaar/tascade/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Storage
	Store domain.DocumentStore

	// Publishers
	EventPublisher eventbus.Publisher

	// Task source
	TaskProvider domain.TaskProvider

	// Recommendation services
	Engine      *services.Engine
	Preferences *services.PreferenceManager
	Analyzer    *services.Analyzer
	Balancer    *services.Balancer

	// Facade
	Service *application.Service
}

// NewContainer builds the dependency graph from configuration. The store
// driver and event publisher are selected here; everything downstream
// depends only on their interfaces.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := observability.TimeOperationResult(ctx, logger, "store.init", func() (domain.DocumentStore, error) {
		return NewDocumentStore(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("document store ready", "driver", cfg.StoreDriver)

	var publisher eventbus.Publisher
	if cfg.EventsEnabled {
		publisher, err = eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			closeStore(store, logger)
			return nil, err
		}
	} else {
		publisher = eventbus.NewNoopPublisher(logger)
	}

	provider := tasks.NewFileProvider(cfg.TasksFile)

	prefs := services.NewPreferenceManager(store, logger)
	analyzer := services.NewAnalyzer(store, nil, publisher, logger)
	balancer := services.NewBalancer(store, analyzer, logger)

	engine := services.NewEngine(prefs, analyzer, balancer, logger)
	engine.AddFactor(factor.NewDeadline(cfg.DeadlineUrgencyDays), 1.0)
	engine.AddFactor(factor.NewCompletionTime(cfg.PreferShorterTasks), 0.5)

	service := application.NewService(engine, prefs, analyzer, balancer, provider, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Store:          store,
		EventPublisher: publisher,
		TaskProvider:   provider,
		Engine:         engine,
		Preferences:    prefs,
		Analyzer:       analyzer,
		Balancer:       balancer,
		Service:        service,
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
	closeStore(c.Store, c.Logger)
}

func closeStore(store domain.DocumentStore, logger *slog.Logger) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("error closing document store", "error", err)
		}
	}
}
