package cmd

import (
	"context"
	"fmt"
	"net/http"

	"ordercore/api"
	"ordercore/api/health"
	apiorder "ordercore/api/order"
	apiuser "ordercore/api/user"
	orderapp "ordercore/application/order"
	userapp "ordercore/application/user"
	"ordercore/config"
	"ordercore/domain/event"
	"ordercore/domain/transition"
	"ordercore/infrastructure/persistence/factory"
	"ordercore/infrastructure/persistence/gormdb"
	"ordercore/infrastructure/persistence/retry"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg        *config.Config
	publisher  event.Publisher
	validator  transition.Validator
	skipLogger bool
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithPublisher replaces the publisher selected by events.publisher
func (b *AppBuilder) WithPublisher(p event.Publisher) *AppBuilder {
	b.publisher = p
	return b
}

// WithValidator installs business checks on the transition engine
func (b *AppBuilder) WithValidator(v transition.Validator) *AppBuilder {
	b.validator = v
	return b
}

// WithoutLoggerInit keeps the current process logger
func (b *AppBuilder) WithoutLoggerInit() *AppBuilder {
	b.skipLogger = true
	return b
}

// Build connects the configured backend and wires services, controllers and the HTTP server
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if !b.skipLogger {
		if err := logger.Init(&b.cfg.Log, b.cfg.App.Env); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("backend", b.cfg.Database.Type))

	backend, err := factory.New(ctx, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", b.cfg.Database.Type, err)
	}

	orderService, err := b.orderService(backend)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}
	userService, err := userapp.NewApplicationService(backend.Repositories.Users)
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}

	router := api.NewRouter(
		b.cfg,
		health.NewController(b.cfg, backend),
		apiuser.NewController(userService),
		apiorder.NewController(orderService),
	)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		backend: backend,
	}, nil
}

func (b *AppBuilder) orderService(backend *factory.Backend) (*orderapp.Service, error) {
	publisher, err := b.buildPublisher(backend)
	if err != nil {
		return nil, err
	}

	var engineOpts []transition.Option
	if b.validator != nil {
		engineOpts = append(engineOpts, transition.WithValidator(b.validator))
	}
	engine := transition.NewEngine(backend.Repositories, engineOpts...)

	opts := []orderapp.Option{orderapp.WithSource(b.cfg.Events.Source)}
	if backend.Gorm != nil {
		uow := gormdb.NewUnitOfWork(backend.Gorm)
		uow.SetRetryConfig(retry.FromAppConfig(b.cfg))
		opts = append(opts, orderapp.WithUnitOfWork(uow))
		if _, ok := publisher.(*gormdb.OutboxPublisher); ok {
			opts = append(opts, orderapp.WithTransactionalPublish())
		}
	}

	return orderapp.NewService(backend.Repositories, publisher, engine, opts...)
}

func (b *AppBuilder) buildPublisher(backend *factory.Backend) (event.Publisher, error) {
	if b.publisher != nil {
		return b.publisher, nil
	}

	switch b.cfg.Events.Publisher {
	case config.PublisherNoop:
		return event.NoOpPublisher{}, nil
	case config.PublisherLog, "":
		return event.LoggingPublisher{}, nil
	case config.PublisherBus:
		bus := event.NewEventBus()
		if err := bus.Subscribe(event.AllEvents, event.NewFuncHandler("log", event.LoggingPublisher{}.Publish)); err != nil {
			return nil, err
		}
		return bus, nil
	case config.PublisherOutbox:
		if backend.Gorm == nil {
			return nil, fmt.Errorf("outbox publisher requires the gorm backend, got %q", backend.Type)
		}
		return gormdb.NewOutboxPublisher(backend.Gorm), nil
	default:
		return nil, fmt.Errorf("unknown events.publisher %q", b.cfg.Events.Publisher)
	}
}
