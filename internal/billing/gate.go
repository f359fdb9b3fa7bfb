package billing

import (
	"github.com/lopez-it-welt/worktrack/internal/models"
)

// DefaultBlockMinutes is the billing block size: stopped time is
// rounded up to quarter-hour blocks before it is invoiced.
const DefaultBlockMinutes = 15

// Gate selects the billable subset of a session collection and totals
// it. It never mutates sessions; marking an entry as invoiced is the
// invoicing collaborator's job.
type Gate struct {
	blockMinutes int
}

// Config for the billing gate
type Config struct {
	// BlockMinutes is the rounding block for billed time
	BlockMinutes int
}

// New creates a new billing gate
func New(cfg *Config) *Gate {
	blockMinutes := DefaultBlockMinutes
	if cfg != nil && cfg.BlockMinutes > 0 {
		blockMinutes = cfg.BlockMinutes
	}

	return &Gate{
		blockMinutes: blockMinutes,
	}
}

// BillableEntries returns the sessions that are completed, approved
// and not yet invoiced
func (g *Gate) BillableEntries(sessions []*models.Session) []*models.Session {
	entries := make([]*models.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.Status != models.SessionStatusCompleted {
			continue
		}
		if !session.Approved || session.Invoiced {
			continue
		}
		entries = append(entries, session)
	}
	return entries
}

// TotalBillableMinutes sums the exact recorded duration over the
// billable subset
func (g *Gate) TotalBillableMinutes(sessions []*models.Session) int {
	total := 0
	for _, session := range g.BillableEntries(sessions) {
		total += session.DurationMinutes
	}
	return total
}

// TotalBilledMinutes sums the billable subset with each entry rounded
// up to full billing blocks
func (g *Gate) TotalBilledMinutes(sessions []*models.Session) int {
	total := 0
	for _, session := range g.BillableEntries(sessions) {
		total += g.roundToBlock(session.DurationMinutes)
	}
	return total
}

func (g *Gate) roundToBlock(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	blocks := (minutes + g.blockMinutes - 1) / g.blockMinutes
	return blocks * g.blockMinutes
}
