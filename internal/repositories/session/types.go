package session

import (
	"time"

	"github.com/lopez-it-welt/worktrack/internal/models"
)

// SaveSessionInput contains the session to persist
type SaveSessionInput struct {
	Session *models.Session
}

// GetSessionInput identifies the session to load
type GetSessionInput struct {
	SessionID string
}

// GetActiveSessionByUserInput identifies the user whose active session to load
type GetActiveSessionByUserInput struct {
	UserID string
}

// GetActiveSessionsInput requests all currently active sessions
type GetActiveSessionsInput struct{}

// GetActiveSessionsOutput contains all currently active sessions
type GetActiveSessionsOutput struct {
	Sessions []*models.Session
}

// ListSessionsInput filters the full session history. Zero values
// leave the corresponding dimension unfiltered.
type ListSessionsInput struct {
	// UserID restricts the listing to one user
	UserID string

	// Status restricts the listing to one lifecycle state
	Status models.SessionStatus

	// Since restricts the listing to sessions started at or after this time
	Since time.Time
}

// ListSessionsOutput contains the matching sessions ordered by start time
type ListSessionsOutput struct {
	Sessions []*models.Session
}

// CreateSessionIfNoActiveInput carries the draft session to create.
// The draft must already have its id, timestamps and active status set.
type CreateSessionIfNoActiveInput struct {
	Session *models.Session
}

// CreateSessionIfNoActiveOutput reports the outcome of the atomic
// check-then-create. When the user already had an active session,
// AlreadyActive is true and Session is the existing record.
type CreateSessionIfNoActiveOutput struct {
	Session       *models.Session
	AlreadyActive bool
}

// AddActivityInput contains the activity marker to append
type AddActivityInput struct {
	Activity *models.Activity
}

// GetActivitiesInput identifies the session whose activity log to load
type GetActivitiesInput struct {
	SessionID string
}

// GetActivitiesOutput contains the activity log in insertion order
type GetActivitiesOutput struct {
	Activities []*models.Activity
}
