package stats

import (
	"math"
	"time"

	"github.com/lopez-it-welt/worktrack/internal/models"
)

// Aggregator derives counts, durations and group-by breakdowns from a
// session collection. It is pure: it never mutates its input and holds
// no state, so the same collection and reference date always produce
// the same result.
type Aggregator struct{}

// New creates a new stats aggregator
func New() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes the stats view over the given sessions. The
// reference date decides which calendar day counts as "today".
// Worked-time totals (TotalTime, TodayTime, AvgDuration) only count
// completed sessions; interrupted time is tracked per category and
// module but not billed as worked time.
func (a *Aggregator) Aggregate(sessions []*models.Session, reference time.Time) *models.Stats {
	stats := &models.Stats{
		TotalSessions: len(sessions),
		CategoryStats: make(map[string]int),
		ModuleStats:   make(map[string]int),
		TriggerStats:  make(map[string]int),
		ProblemStats:  make(map[string]int),
	}

	refYear, refMonth, refDay := reference.Date()
	finalized := 0

	for _, session := range sessions {
		switch session.Status {
		case models.SessionStatusActive:
			stats.ActiveSessions++
			stats.StatusStats.Active++
		case models.SessionStatusCompleted:
			stats.StatusStats.Completed++
		case models.SessionStatusInterrupted:
			stats.StatusStats.Interrupted++
		}

		if session.Trigger != "" {
			stats.TriggerStats[session.Trigger]++
		}
		if session.Problem != "" {
			stats.ProblemStats[session.Problem]++
		}

		if !session.IsFinalized() {
			continue
		}

		finalized++

		if session.Category != "" {
			stats.CategoryStats[session.Category] += session.DurationMinutes
		}
		if session.Module != "" {
			stats.ModuleStats[session.Module] += session.DurationMinutes
		}

		if session.Status != models.SessionStatusCompleted {
			continue
		}

		stats.TotalTime += session.DurationMinutes

		year, month, day := session.StartTime.Date()
		if year == refYear && month == refMonth && day == refDay {
			stats.TodayTime += session.DurationMinutes
		}
	}

	if stats.StatusStats.Completed > 0 {
		stats.AvgDuration = stats.TotalTime / stats.StatusStats.Completed
	}
	if finalized > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.StatusStats.Completed) / float64(finalized) * 100))
	}

	return stats
}
