package models

import (
	"time"
)

// ActivityType classifies a work-session activity marker
type ActivityType string

const (
	ActivityTypeGitCommit ActivityType = "git_commit"
	ActivityTypeBuild     ActivityType = "build"
	ActivityTypeTest      ActivityType = "test"
	ActivityTypeSave      ActivityType = "save"
)

// Activity is a lightweight event recorded against a running session.
// Only metadata is stored, never file contents.
type Activity struct {
	// SessionID is the session this activity belongs to
	SessionID string `json:"session_id"`

	// Type is the kind of activity
	Type ActivityType `json:"type"`

	// Hash is an optional commit hash or build identifier
	Hash string `json:"hash,omitempty"`

	// Message is an optional note, capped at 255 characters
	Message string `json:"message,omitempty"`

	// Timestamp is when the activity was recorded
	Timestamp time.Time `json:"timestamp"`
}
