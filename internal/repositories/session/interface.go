package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/lopez-it-welt/worktrack/internal/repositories/session Repository

import (
	"context"

	"github.com/lopez-it-welt/worktrack/internal/models"
)

// Repository defines the interface for session persistence
type Repository interface {
	// SaveSession persists a session and maintains the active-session indexes
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// GetActiveSessionByUser retrieves the user's active session, if any
	GetActiveSessionByUser(ctx context.Context, input *GetActiveSessionByUserInput) (*models.Session, error)

	// GetActiveSessions retrieves all currently active sessions
	GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error)

	// ListSessions retrieves the session history, optionally filtered
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// CreateSessionIfNoActive atomically creates the draft session unless
	// the user already has an active one, in which case the existing
	// session is returned instead
	CreateSessionIfNoActive(ctx context.Context, input *CreateSessionIfNoActiveInput) (*CreateSessionIfNoActiveOutput, error)

	// AddActivity appends an activity marker to a session's activity log
	AddActivity(ctx context.Context, input *AddActivityInput) error

	// GetActivities retrieves a session's activity log
	GetActivities(ctx context.Context, input *GetActivitiesInput) (*GetActivitiesOutput, error)
}
