package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/task-api/domain/task"
	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// Service implements TaskPort on top of the in-memory repository.
type Service struct {
	repo     *TaskRepository
	logger   types.Logger
	eventBus mono.EventBus
	now      func() time.Time
	newID    func() string
}

var _ TaskPort = (*Service)(nil)

// NewService creates a task service backed by repo.
func NewService(repo *TaskRepository, logger types.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// SetEventBus enables event publication. Without a bus the service still
// works but emits nothing.
func (s *Service) SetEventBus(bus mono.EventBus) {
	s.eventBus = bus
}

// ListTasks returns every task with the total count.
func (s *Service) ListTasks(_ context.Context) (*ListTasksResponse, error) {
	s.logger.Info("Fetching all tasks")

	tasks := s.repo.FindAll()
	response := &ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Count: len(tasks),
	}
	for i := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(&tasks[i]))
	}
	return response, nil
}

// CreateTask stores a new pending task.
func (s *Service) CreateTask(_ context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	if req == nil || req.Title == "" {
		return nil, ErrTitleRequired
	}

	newTask := domain.New(s.newID(), req.Title, req.Description, s.now())
	if err := s.repo.Insert(newTask); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	s.logger.Info("Created task", "task_id", newTask.ID)

	if s.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			CreatedAt: newTask.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskCreated event", "task_id", newTask.ID, "error", err)
		}
	}

	resp := toTaskResponse(newTask)
	return &resp, nil
}

// GetTask returns a single task.
func (s *Service) GetTask(_ context.Context, taskID string) (*TaskResponse, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	resp := toTaskResponse(task)
	return &resp, nil
}

// UpdateTask merges the patch into an existing task.
func (s *Service) UpdateTask(_ context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("update request is required")
	}

	now := s.now()
	task, err := s.repo.Update(req.TaskID, func(t *domain.Task) {
		t.Apply(req.Patch, now)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Updated task", "task_id", task.ID)

	if s.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    task.ID,
			Status:    string(task.Status),
			UpdatedAt: task.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskUpdated event", "task_id", task.ID, "error", err)
		}
	}

	resp := toTaskResponse(task)
	return &resp, nil
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(_ context.Context, taskID string) error {
	if err := s.repo.Delete(taskID); err != nil {
		return err
	}
	s.logger.Info("Deleted task", "task_id", taskID)

	if s.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    taskID,
			DeletedAt: s.now().UTC(),
		}
		if err := events.TaskDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish TaskDeleted event", "task_id", taskID, "error", err)
		}
	}
	return nil
}
