package billing

import (
	"testing"

	"github.com/lopez-it-welt/worktrack/internal/models"
	"github.com/stretchr/testify/suite"
)

type GateTestSuite struct {
	suite.Suite
	gate *Gate
}

func (s *GateTestSuite) SetupTest() {
	s.gate = New(nil)
}

func TestGateTestSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (s *GateTestSuite) session(id string, status models.SessionStatus, approved, invoiced bool, minutes int) *models.Session {
	return &models.Session{
		ID:              id,
		UserID:          "user-1",
		Status:          status,
		Approved:        approved,
		Invoiced:        invoiced,
		DurationMinutes: minutes,
	}
}

func (s *GateTestSuite) TestBillableEntries_Filter() {
	sessions := []*models.Session{
		s.session("billable", models.SessionStatusCompleted, true, false, 20),
		s.session("unapproved", models.SessionStatusCompleted, false, false, 15),
		s.session("invoiced", models.SessionStatusCompleted, true, true, 10),
		s.session("interrupted", models.SessionStatusInterrupted, true, false, 30),
		s.session("running", models.SessionStatusActive, true, false, 0),
	}

	entries := s.gate.BillableEntries(sessions)

	s.Require().Len(entries, 1)
	s.Equal("billable", entries[0].ID)
}

func (s *GateTestSuite) TestTotalBillableMinutes() {
	sessions := []*models.Session{
		s.session("a", models.SessionStatusCompleted, true, false, 20),
		s.session("b", models.SessionStatusCompleted, false, false, 15),
		s.session("c", models.SessionStatusCompleted, true, true, 10),
	}

	s.Equal(20, s.gate.TotalBillableMinutes(sessions))
}

func (s *GateTestSuite) TestTotalBillableMinutes_Empty() {
	s.Equal(0, s.gate.TotalBillableMinutes(nil))
}

func (s *GateTestSuite) TestTotalBilledMinutes_RoundsUpToBlocks() {
	sessions := []*models.Session{
		s.session("a", models.SessionStatusCompleted, true, false, 22), // -> 30
		s.session("b", models.SessionStatusCompleted, true, false, 45), // exact block
		s.session("c", models.SessionStatusCompleted, true, false, 1),  // -> 15
	}

	s.Equal(90, s.gate.TotalBilledMinutes(sessions))
}

func (s *GateTestSuite) TestTotalBilledMinutes_CustomBlock() {
	gate := New(&Config{BlockMinutes: 30})
	sessions := []*models.Session{
		s.session("a", models.SessionStatusCompleted, true, false, 31),
	}

	s.Equal(60, gate.TotalBilledMinutes(sessions))
}

func (s *GateTestSuite) TestTotalBilledMinutes_ZeroDuration() {
	sessions := []*models.Session{
		s.session("a", models.SessionStatusCompleted, true, false, 0),
	}

	s.Equal(0, s.gate.TotalBilledMinutes(sessions))
}
