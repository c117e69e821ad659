package task

import (
	"fmt"
	"slices"
	"sync"

	domain "github.com/example/task-api/domain/task"
)

// TaskRepository provides in-memory task storage.
// Records are copied on the way in and out so callers never share them.
type TaskRepository struct {
	tasks map[string]*domain.Task
	order []string
	mu    sync.RWMutex
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]*domain.Task),
	}
}

// Insert adds a new task. It fails if the id is already taken.
func (r *TaskRepository) Insert(task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.tasks[task.ID]; found {
		return fmt.Errorf("%w: %s", ErrTaskExists, task.ID)
	}
	stored := *task
	r.tasks[task.ID] = &stored
	r.order = append(r.order, task.ID)
	return nil
}

// FindByID finds a task by ID.
func (r *TaskRepository) FindByID(taskID string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, found := r.tasks[taskID]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	taskCopy := *task
	return &taskCopy, nil
}

// Update runs fn against the stored task while holding the write lock and
// returns the result.
func (r *TaskRepository) Update(taskID string, fn func(*domain.Task)) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, found := r.tasks[taskID]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	fn(task)
	taskCopy := *task
	return &taskCopy, nil
}

// Delete deletes a task by ID.
func (r *TaskRepository) Delete(taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.tasks[taskID]; !found {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	delete(r.tasks, taskID)
	if i := slices.Index(r.order, taskID); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

// FindAll returns all tasks in insertion order.
func (r *TaskRepository) FindAll() []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Task, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.tasks[id])
	}
	return result
}

// Count returns the number of stored tasks.
func (r *TaskRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tasks)
}
