package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-api/config"
	"github.com/example/task-api/modules/api"
	"github.com/example/task-api/modules/audit"
	"github.com/example/task-api/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel := mono.LogLevelInfo
	if cfg.ErrorOnly() {
		logLevel = mono.LogLevelError
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(logLevel),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()
	for _, warning := range cfg.Warnings {
		logger.Warn("Configuration value ignored", "reason", warning)
	}

	// Event consumers first, then the core domain, then the driving adapter.
	app.Register(audit.NewModule(logger.WithModule("audit")))
	app.Register(task.NewModule(logger.WithModule("task")))
	app.Register(api.NewModule(cfg, logger.WithModule("api")))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	logger.Info("Task API started",
		"addr", cfg.Address(),
		"version", cfg.Version,
		"endpoints", []string{
			"GET / - Service info",
			"GET /health - Health check",
			"GET /tasks - List tasks",
			"POST /tasks - Create a task",
			"GET /tasks/:id - Get a task",
			"PUT /tasks/:id - Update a task",
			"DELETE /tasks/:id - Delete a task",
		})

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	os.Exit(exitCode)
}
