package heartbeat

import (
	"time"

	"github.com/lopez-it-welt/worktrack/internal/models"
)

// DefaultThreshold allows two missed beats at the recommended
// 20-second client cadence before a session counts as stale.
const DefaultThreshold = 60 * time.Second

// Monitor classifies active sessions as alive or stale. It never
// mutates a session and never fails; what to do with a stale session
// is the caller's decision.
type Monitor struct {
	threshold time.Duration
}

// Config for the heartbeat monitor
type Config struct {
	// Threshold is the maximum age of the last heartbeat before a
	// session is considered stale
	Threshold time.Duration
}

// New creates a new heartbeat monitor
func New(cfg *Config) *Monitor {
	threshold := DefaultThreshold
	if cfg != nil && cfg.Threshold > 0 {
		threshold = cfg.Threshold
	}

	return &Monitor{
		threshold: threshold,
	}
}

// Threshold returns the configured staleness threshold
func (m *Monitor) Threshold() time.Duration {
	return m.threshold
}

// IsStale reports whether the session's last heartbeat is older than
// the threshold at the given point in time
func (m *Monitor) IsStale(session *models.Session, now time.Time) bool {
	if session == nil {
		return false
	}
	return now.Sub(session.LastHeartbeatAt) > m.threshold
}

// StaleSessions returns the ids of every active session whose last
// heartbeat is older than the threshold
func (m *Monitor) StaleSessions(sessions []*models.Session, now time.Time) []string {
	var stale []string
	for _, session := range sessions {
		if session.Status != models.SessionStatusActive {
			continue
		}
		if m.IsStale(session, now) {
			stale = append(stale, session.ID)
		}
	}
	return stale
}
