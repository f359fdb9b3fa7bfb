package tracker

import (
	"time"

	"github.com/lopez-it-welt/worktrack/internal/billing"
	"github.com/lopez-it-welt/worktrack/internal/common/clock"
	"github.com/lopez-it-welt/worktrack/internal/common/uuid"
	"github.com/lopez-it-welt/worktrack/internal/heartbeat"
	"github.com/lopez-it-welt/worktrack/internal/models"
	directoryRepo "github.com/lopez-it-welt/worktrack/internal/repositories/directory"
	sessionRepo "github.com/lopez-it-welt/worktrack/internal/repositories/session"
	"github.com/lopez-it-welt/worktrack/internal/stats"
	"github.com/lopez-it-welt/worktrack/internal/trigger"
)

const (
	// DefaultCategory is used when the caller supplies none
	DefaultCategory = "development"

	// DefaultPriority is used when the caller supplies none
	DefaultPriority = "medium"

	// Description length bounds ("Tätigkeit")
	MinDescriptionLength = 8
	MaxDescriptionLength = 180

	// MaxActivityMessageLength caps stored activity notes
	MaxActivityMessageLength = 255
)

// Config holds configuration for the tracker service
type Config struct {
	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// DirectoryRepo is optional; without it session details are
	// returned without project/task names
	DirectoryRepo directoryRepo.Repository

	// Component dependencies
	Monitor     *heartbeat.Monitor
	Aggregator  *stats.Aggregator
	BillingGate *billing.Gate

	// Classifier is optional; without it a missing trigger stays empty
	Classifier *trigger.Classifier

	// Service dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// StartSessionInput contains parameters for starting a work session
type StartSessionInput struct {
	// UserID is the user the session belongs to
	UserID string

	// Description is the human-readable "Tätigkeit", 8-180 characters
	Description string

	// Module is the area of the system being worked on; defaults to a
	// prefix of the description
	Module string

	// Category and Priority default to development/medium
	Category string
	Priority string

	// Trigger is optional; when empty it is classified from the description
	Trigger string

	// Problem is an optional note carried on the session from the start
	Problem string

	// Optional associations, not validated by the engine
	ProjectID *int64
	TaskID    *int64
}

// StartSessionOutput contains the started or already-running session
type StartSessionOutput struct {
	// Session is the newly created session, or the user's existing
	// active session when AlreadyActive is true
	Session *models.Session

	// AlreadyActive reports that no new session was created because
	// one was already running for the user
	AlreadyActive bool
}

// HeartbeatInput contains a liveness signal for an active session
type HeartbeatInput struct {
	// SessionID identifies the session
	SessionID string

	// ClientTimestamp is the client's clock reading; the stored
	// heartbeat never regresses on out-of-order delivery
	ClientTimestamp time.Time
}

// HeartbeatOutput echoes the timestamps involved
type HeartbeatOutput struct {
	SessionID  string
	ServerTime time.Time
	ClientTime time.Time
}

// RecordActivityInput contains an activity marker for a session
type RecordActivityInput struct {
	SessionID string
	Type      models.ActivityType

	// Hash is an optional commit hash or build identifier
	Hash string

	// Message is an optional note, truncated to 255 characters
	Message string
}

// RecordActivityOutput contains the stored activity
type RecordActivityOutput struct {
	Activity *models.Activity
}

// CompleteSessionInput contains parameters for completing a session
type CompleteSessionInput struct {
	SessionID string

	// Problem and Category may be supplied late and are merged into
	// the session at finalization
	Problem  string
	Category string
}

// CompleteSessionOutput contains the finalized session
type CompleteSessionOutput struct {
	Session *models.Session
}

// MarkInterruptedInput contains parameters for interrupting a session
type MarkInterruptedInput struct {
	SessionID string

	// Reason is recorded on the session
	Reason string
}

// MarkInterruptedOutput contains the finalized session
type MarkInterruptedOutput struct {
	Session *models.Session
}

// CloseAllActiveInput optionally scopes the bulk close to one user
type CloseAllActiveInput struct {
	UserID string
}

// CloseAllActiveOutput reports the sessions that were closed
type CloseAllActiveOutput struct {
	ClosedCount int
	Sessions    []*models.Session
}

// SweepStaleInput requests a staleness sweep over all active sessions
type SweepStaleInput struct{}

// SweepStaleOutput reports the sessions interrupted by the sweep
type SweepStaleOutput struct {
	InterruptedCount int
	Sessions         []*models.Session
}

// GetStatsInput selects the reference date for "today" figures; the
// zero value means now
type GetStatsInput struct {
	Reference time.Time
}

// GetStatsOutput contains the aggregated view
type GetStatsOutput struct {
	Stats *models.Stats
}

// ListSessionsInput filters the session history
type ListSessionsInput struct {
	UserID string
	Status models.SessionStatus
	Since  time.Time
}

// ListSessionsOutput contains the matching sessions ordered by start time
type ListSessionsOutput struct {
	Sessions []*models.Session
}

// GetSessionInput identifies the session to load
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the session, its activity log and the
// directory display names for its associations
type GetSessionOutput struct {
	Session     *models.Session
	Activities  []*models.Activity
	ProjectName string
	TaskName    string
}

// BillableEntriesInput requests the current billable subset
type BillableEntriesInput struct{}

// BillableEntriesOutput contains the billable sessions and their totals
type BillableEntriesOutput struct {
	Entries []*models.Session

	// TotalMinutes is the exact recorded duration
	TotalMinutes int

	// BilledMinutes rounds each entry up to full billing blocks
	BilledMinutes int
}
