package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-api/config"
	"github.com/example/task-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const startupGrace = 100 * time.Millisecond

// APIModule is the driving adapter that exposes the task REST endpoints.
// It reaches the task module only through the TaskPort interface.
type APIModule struct {
	app         *fiber.App
	cfg         *config.Config
	taskAdapter task.TaskPort
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*APIModule)(nil)
	_ mono.DependentModule       = (*APIModule)(nil)
	_ mono.HealthCheckableModule = (*APIModule)(nil)
)

// NewModule creates a new APIModule.
func NewModule(cfg *config.Config, logger types.Logger) *APIModule {
	return &APIModule{
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "task":
		m.taskAdapter = task.NewTaskAdapter(container)
	}
}

// NewApp builds the Fiber application serving handlers.
func NewApp(handlers *Handlers, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Task API",
		DisableStartupMessage: true,
		StrictRouting:         false,
		BodyLimit:             bodyLimit,
		ErrorHandler:          handlers.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))

	handlers.Register(app)
	return app
}

// Start builds the HTTP server and begins listening.
func (m *APIModule) Start(_ context.Context) error {
	if m.taskAdapter == nil {
		return fmt.Errorf("taskAdapter dependency not set")
	}

	handlers := NewHandlers(m.taskAdapter, m.cfg.Version, m.logger)
	m.app = NewApp(handlers, m.cfg.BodyLimit)

	addr := m.cfg.Address()
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		m.app = nil
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(startupGrace):
	}

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "HTTP server not running",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr": m.cfg.Address(),
		},
	}
}
