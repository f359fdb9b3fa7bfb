package tracker

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/lopez-it-welt/worktrack/internal/services/tracker Service

import "context"

// Service defines the interface for work-session lifecycle operations
type Service interface {
	// StartSession creates a new session unless the user already has an
	// active one, in which case the existing session is returned
	StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error)

	// Heartbeat records a liveness signal for an active session
	Heartbeat(ctx context.Context, input *HeartbeatInput) (*HeartbeatOutput, error)

	// RecordActivity appends an activity marker to a session
	RecordActivity(ctx context.Context, input *RecordActivityInput) (*RecordActivityOutput, error)

	// CompleteSession finalizes an active session as completed
	CompleteSession(ctx context.Context, input *CompleteSessionInput) (*CompleteSessionOutput, error)

	// MarkInterrupted finalizes an active session as interrupted
	MarkInterrupted(ctx context.Context, input *MarkInterruptedInput) (*MarkInterruptedOutput, error)

	// CloseAllActive finalizes every active session as completed
	CloseAllActive(ctx context.Context, input *CloseAllActiveInput) (*CloseAllActiveOutput, error)

	// SweepStale interrupts every active session whose heartbeat has
	// gone stale
	SweepStale(ctx context.Context, input *SweepStaleInput) (*SweepStaleOutput, error)

	// GetStats aggregates the full session history
	GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error)

	// ListSessions retrieves the session history, optionally filtered
	ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error)

	// GetSession retrieves one session with its activity log and
	// directory display names
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// BillableEntries returns the completed, approved, not-yet-invoiced
	// sessions and their totals
	BillableEntries(ctx context.Context, input *BillableEntriesInput) (*BillableEntriesOutput, error)
}
