package workflow

import (
	"project-tracker-api/internal/store"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when the task id does not resolve.
	ErrNotFound = store.ErrNotFound
	// ErrInvalidTransition is returned when an action violates a task invariant.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnauthorized is returned when the principal lacks the capability for an action.
	ErrUnauthorized = errors.New("unauthorized")
)
