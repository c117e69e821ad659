package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/task-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// DefaultCapacity is the number of entries kept before the oldest are dropped.
const DefaultCapacity = 100

// Entry types recorded by the audit module.
const (
	EntryTaskCreated = "task_created"
	EntryTaskUpdated = "task_updated"
	EntryTaskDeleted = "task_deleted"
)

// Entry is a single recorded task lifecycle event.
type Entry struct {
	TaskID     string    `json:"task_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditModule subscribes to task events and keeps a bounded trail of them.
type AuditModule struct {
	entries  []Entry
	capacity int
	mu       sync.RWMutex
	logger   types.Logger
}

var (
	_ mono.Module                = (*AuditModule)(nil)
	_ mono.EventConsumerModule   = (*AuditModule)(nil)
	_ mono.HealthCheckableModule = (*AuditModule)(nil)
)

// NewModule creates an AuditModule holding at most DefaultCapacity entries.
func NewModule(logger types.Logger) *AuditModule {
	return &AuditModule{
		entries:  make([]Entry, 0, DefaultCapacity),
		capacity: DefaultCapacity,
		logger:   logger,
	}
}

func (m *AuditModule) Name() string {
	return "audit"
}

func (m *AuditModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"TaskCreated", "TaskUpdated", "TaskDeleted"})
	return nil
}

func (m *AuditModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task created", "task_id", event.TaskID)
	m.record(event.TaskID, EntryTaskCreated, fmt.Sprintf("Task '%s' created", event.Title), event.CreatedAt)
	return nil
}

func (m *AuditModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task updated", "task_id", event.TaskID, "status", event.Status)
	m.record(event.TaskID, EntryTaskUpdated, fmt.Sprintf("Task %s updated, status %s", event.TaskID, event.Status), event.UpdatedAt)
	return nil
}

func (m *AuditModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.logger.Debug("Task deleted", "task_id", event.TaskID)
	m.record(event.TaskID, EntryTaskDeleted, fmt.Sprintf("Task %s deleted", event.TaskID), event.DeletedAt)
	return nil
}

func (m *AuditModule) record(taskID, entryType, message string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if at.IsZero() {
		at = time.Now().UTC()
	}
	m.entries = append(m.entries, Entry{
		TaskID:     taskID,
		Type:       entryType,
		Message:    message,
		OccurredAt: at,
	})
	if overflow := len(m.entries) - m.capacity; overflow > 0 {
		m.entries = append(m.entries[:0], m.entries[overflow:]...)
	}
}

// Entries returns a copy of the recorded entries, oldest first.
func (m *AuditModule) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

func (m *AuditModule) Health(_ context.Context) mono.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"entries":  len(m.entries),
			"capacity": m.capacity,
		},
	}
}

func (m *AuditModule) Start(_ context.Context) error {
	m.logger.Info("Audit module started, listening for task events")
	return nil
}

func (m *AuditModule) Stop(_ context.Context) error {
	m.logger.Info("Audit module stopped")
	return nil
}
