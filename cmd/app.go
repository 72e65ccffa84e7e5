package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ordercore/api"
	"ordercore/config"
	"ordercore/infrastructure/persistence/factory"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
)

// App 应用程序结构体
type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	backend *factory.Backend
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", a.server.Addr),
			zap.String("health", "/api/v1/health"))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
		return a.Close(context.Background())
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	return a.Shutdown()
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the backend
func (a *App) Shutdown() error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	if closeErr := a.Close(ctx); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Close releases the storage backend
func (a *App) Close(ctx context.Context) error {
	return a.backend.Close(ctx)
}

// Handler 获取 HTTP handler（用于测试）
func (a *App) Handler() http.Handler {
	return a.server.Handler
}
