package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestTaskStatus_Valid(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{"bogus", false},
		{"", false},
		{"Pending", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	task := New("id-1", "Write docs", "", now)

	assert.Equal(t, "id-1", task.ID)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.Equal(t, time.UTC, task.CreatedAt.Location())
}

func TestTask_Apply(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)

	tests := []struct {
		name            string
		patch           Patch
		wantTitle       string
		wantDescription string
		wantStatus      TaskStatus
	}{
		{
			name:            "empty patch only bumps updated_at",
			patch:           Patch{},
			wantTitle:       "Title",
			wantDescription: "Desc",
			wantStatus:      StatusPending,
		},
		{
			name:            "status only",
			patch:           Patch{Status: strPtr("in_progress")},
			wantTitle:       "Title",
			wantDescription: "Desc",
			wantStatus:      StatusInProgress,
		},
		{
			name:            "invalid status ignored",
			patch:           Patch{Status: strPtr("bogus"), Title: strPtr("New")},
			wantTitle:       "New",
			wantDescription: "Desc",
			wantStatus:      StatusPending,
		},
		{
			name:            "empty title accepted verbatim",
			patch:           Patch{Title: strPtr(""), Description: strPtr("")},
			wantTitle:       "",
			wantDescription: "",
			wantStatus:      StatusPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := New("id-1", "Title", "Desc", created)

			task.Apply(tt.patch, later)

			assert.Equal(t, tt.wantTitle, task.Title)
			assert.Equal(t, tt.wantDescription, task.Description)
			assert.Equal(t, tt.wantStatus, task.Status)
			assert.Equal(t, later, task.UpdatedAt)
			assert.Equal(t, created, task.CreatedAt)
		})
	}
}

func TestTask_Apply_AnyTransitionAllowed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task := New("id-1", "Title", "", now)

	task.Apply(Patch{Status: strPtr("completed")}, now)
	assert.Equal(t, StatusCompleted, task.Status)

	task.Apply(Patch{Status: strPtr("pending")}, now)
	assert.Equal(t, StatusPending, task.Status)
}

func TestTask_Apply_NeverMovesBeforeCreation(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	task := New("id-1", "Title", "", created)

	task.Apply(Patch{}, created.Add(-time.Second))

	assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 13, 4, 5, 123456789, time.FixedZone("CET", 3600))

	assert.Equal(t, "2024-03-01T12:04:05.123456Z", FormatTimestamp(ts))
}
