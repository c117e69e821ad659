package api

import (
	"errors"
	"time"

	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/modules/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Client-facing error messages. Internal details are logged, never returned.
const (
	msgTitleRequired  = "Title is required"
	msgTaskNotFound   = "Task not found"
	msgRouteNotFound  = "Endpoint not found"
	msgInternalError  = "Internal server error"
	msgTaskDeleted    = "Task deleted successfully"
	msgServiceWelcome = "Welcome to Task Management API"
)

// Handlers contains HTTP handlers for the task API.
type Handlers struct {
	tasks   task.TaskPort
	version string
	logger  types.Logger
	now     func() time.Time
}

// NewHandlers creates handlers that serve tasks through port.
func NewHandlers(port task.TaskPort, version string, logger types.Logger) *Handlers {
	return &Handlers{
		tasks:   port,
		version: version,
		logger:  logger,
		now:     time.Now,
	}
}

// Register mounts all routes on app. The catch-all must stay last.
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/", h.Info)
	app.Get("/health", h.Health)

	app.Get("/tasks", h.ListTasks)
	app.Post("/tasks", h.CreateTask)
	app.Get("/tasks/:id", h.GetTask)
	app.Put("/tasks/:id", h.UpdateTask)
	app.Delete("/tasks/:id", h.DeleteTask)

	app.Use(h.NotFound)
}

// Info handles GET /.
func (h *Handlers) Info(c *fiber.Ctx) error {
	return c.JSON(InfoResponse{
		Message: msgServiceWelcome,
		Version: h.version,
		Status:  "running",
		Endpoints: map[string]string{
			"health": "/health",
			"tasks":  "/tasks",
		},
	})
}

// Health handles GET /health.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Timestamp: domain.FormatTimestamp(h.now()),
		Version:   h.version,
	})
}

// ListTasks handles GET /tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	resp, err := h.tasks.ListTasks(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}

	tasks := make([]TaskResponse, 0, len(resp.Tasks))
	for i := range resp.Tasks {
		tasks = append(tasks, toTaskResponse(&resp.Tasks[i]))
	}
	return c.JSON(ListTasksResponse{
		Tasks: tasks,
		Count: resp.Count,
	})
}

// CreateTask handles POST /tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	req, err := parseCreatePayload(c.Body())
	if err != nil {
		h.logger.Debug("Rejected create payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgTitleRequired})
	}

	resp, err := h.tasks.CreateTask(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(resp))
}

// GetTask handles GET /tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	resp, err := h.tasks.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// UpdateTask handles PUT /tasks/:id. Existence is checked before the body
// is parsed, so an unknown id always yields 404.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	taskID := c.Params("id")
	ctx := c.UserContext()

	if _, err := h.tasks.GetTask(ctx, taskID); err != nil {
		return h.respondError(c, err)
	}

	patch, err := parseUpdatePayload(c.Body())
	if err != nil {
		return h.respondError(c, err)
	}

	resp, err := h.tasks.UpdateTask(ctx, &task.UpdateTaskRequest{
		TaskID: taskID,
		Patch:  patch,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(toTaskResponse(resp))
}

// DeleteTask handles DELETE /tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: msgTaskDeleted})
}

// NotFound answers every request that matched no route.
func (h *Handlers) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgRouteNotFound})
}

// respondError maps service and payload errors to HTTP responses.
func (h *Handlers) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgTaskNotFound})
	case errors.Is(err, task.ErrTitleRequired):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgTitleRequired})
	default:
		h.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternalError})
	}
}

// errorHandler handles errors that escape the route handlers, including
// recovered panics.
func (h *Handlers) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgRouteNotFound})
		}
	}

	h.logger.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternalError})
}
