package models

import (
	"time"
)

// SessionStatus represents the lifecycle state of a work session
type SessionStatus string

const (
	// SessionStatusActive indicates work is in progress
	SessionStatusActive SessionStatus = "active"

	// SessionStatusCompleted indicates the session ended normally
	SessionStatusCompleted SessionStatus = "completed"

	// SessionStatusInterrupted indicates the session was abandoned or cut off
	SessionStatusInterrupted SessionStatus = "interrupted"
)

// Session represents one timed unit of tracked work
type Session struct {
	// ID is the unique identifier for this session, assigned at creation
	ID string `json:"id"`

	// UserID is the owner of the session; at most one active session per user
	UserID string `json:"user_id"`

	// ProjectID is an optional link to a project, validated by the caller
	ProjectID *int64 `json:"project_id,omitempty"`

	// TaskID is an optional link to a task, validated by the caller
	TaskID *int64 `json:"task_id,omitempty"`

	// Module is the area of the system the work touches
	Module string `json:"module"`

	// Description is the human-readable "Tätigkeit", 8-180 characters
	Description string `json:"description"`

	// Trigger records what prompted the work ("Ausloeser"), e.g. bugfix, support
	Trigger string `json:"trigger,omitempty"`

	// Problem is an optional free-text note recorded at finalization
	Problem string `json:"problem,omitempty"`

	// Category classifies the work: development, bugfix, planning, testing, documentation
	Category string `json:"category"`

	// Priority is low, medium or high
	Priority string `json:"priority"`

	// Status is the persisted lifecycle state
	Status SessionStatus `json:"status"`

	// StartTime is set at creation and never changes
	StartTime time.Time `json:"start_time"`

	// EndTime is set exactly once, at completion or interruption
	EndTime *time.Time `json:"end_time,omitempty"`

	// DurationMinutes is computed at finalization from StartTime and EndTime
	DurationMinutes int `json:"duration_minutes"`

	// LastHeartbeatAt is the newest liveness signal seen for this session
	LastHeartbeatAt time.Time `json:"last_heartbeat_at"`

	// Approved marks the session as cleared for billing
	Approved bool `json:"approved"`

	// Invoiced marks the session as already billed
	Invoiced bool `json:"invoiced"`

	// CreatedAt is when the record was created
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every mutation
	UpdatedAt time.Time `json:"updated_at"`
}

// IsFinalized returns true once the session has left the active state
func (s *Session) IsFinalized() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusInterrupted
}
