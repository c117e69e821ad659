package task

import (
	"errors"
	"strings"
)

// Sentinel errors for task operations.
var (
	// ErrTaskNotFound is returned when the referenced task id is not in the store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTitleRequired is returned when a task is created without a title.
	ErrTitleRequired = errors.New("title is required")

	// ErrTaskExists is returned when an insert collides with an existing id.
	ErrTaskExists = errors.New("task already exists")
)

// mapServiceError converts service errors back to sentinel errors by
// checking the message. Errors lose their type when sent over NATS.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, ErrTaskNotFound.Error()):
		return ErrTaskNotFound
	case strings.Contains(msg, ErrTitleRequired.Error()):
		return ErrTitleRequired
	}
	return err
}
