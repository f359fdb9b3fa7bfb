package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/lopez-it-welt/worktrack/internal/billing"
	"github.com/lopez-it-welt/worktrack/internal/common/clock/mocks"
	uuidMocks "github.com/lopez-it-welt/worktrack/internal/common/uuid/mocks"
	"github.com/lopez-it-welt/worktrack/internal/heartbeat"
	"github.com/lopez-it-welt/worktrack/internal/models"
	directoryRepo "github.com/lopez-it-welt/worktrack/internal/repositories/directory"
	directoryMocks "github.com/lopez-it-welt/worktrack/internal/repositories/directory/mocks"
	sessionRepo "github.com/lopez-it-welt/worktrack/internal/repositories/session"
	sessionMocks "github.com/lopez-it-welt/worktrack/internal/repositories/session/mocks"
	"github.com/lopez-it-welt/worktrack/internal/stats"
	"github.com/lopez-it-welt/worktrack/internal/trigger"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TrackerServiceTestSuite struct {
	suite.Suite
	mockCtrl          *gomock.Controller
	mockSessionRepo   *sessionMocks.MockRepository
	mockDirectoryRepo *directoryMocks.MockRepository
	mockClock         *mocks.MockClock
	mockUUID          *uuidMocks.MockUUID
	trackerService    Service
	ctx               context.Context

	// Test data
	testTime      time.Time
	testSessionID string
	testUserID    string

	// Reusable test fixtures
	expectedActiveSession *models.Session

	// Reusable test inputs
	startSessionInput *StartSessionInput
}

func (s *TrackerServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockSessionRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.mockDirectoryRepo = directoryMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()

	// Initialize test data
	s.testTime = time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC)
	s.testSessionID = "test-session-id"
	s.testUserID = "test-user-id"

	// Set up the clock mock to return our test time
	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	// Initialize reusable test fixtures
	s.expectedActiveSession = &models.Session{
		ID:              s.testSessionID,
		UserID:          s.testUserID,
		Module:          "API-Routen testen und validieren",
		Description:     "API-Routen testen und validieren",
		Category:        DefaultCategory,
		Priority:        DefaultPriority,
		Status:          models.SessionStatusActive,
		StartTime:       s.testTime,
		LastHeartbeatAt: s.testTime,
		CreatedAt:       s.testTime,
		UpdatedAt:       s.testTime,
	}

	// Initialize reusable test inputs
	s.startSessionInput = &StartSessionInput{
		UserID:      s.testUserID,
		Description: "API-Routen testen und validieren",
	}

	// Create the service with mocked dependencies
	cfg := &Config{
		SessionRepo:   s.mockSessionRepo,
		DirectoryRepo: s.mockDirectoryRepo,
		Monitor:       heartbeat.New(nil),
		Aggregator:    stats.New(),
		BillingGate:   billing.New(nil),
		Classifier:    trigger.New(nil),
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	}

	var err error
	svc, err := New(cfg)
	s.Require().NoError(err)
	s.trackerService = svc
}

func (s *TrackerServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *TrackerServiceTestSuite) activeSessionStartedAt(start time.Time) *models.Session {
	session := *s.expectedActiveSession
	session.StartTime = start
	session.LastHeartbeatAt = start
	session.CreatedAt = start
	session.UpdatedAt = start
	return &session
}

func (s *TrackerServiceTestSuite) TestNew_NilConfig() {
	svc, err := New(nil)
	s.Require().Error(err)
	s.Equal(ErrNilConfig, err)
	s.Nil(svc)
}

func (s *TrackerServiceTestSuite) TestNew_MissingDependencies() {
	svc, err := New(&Config{})
	s.Require().Error(err)
	s.Equal(ErrNilSessionRepo, err)
	s.Nil(svc)

	svc, err = New(&Config{SessionRepo: s.mockSessionRepo})
	s.Require().Error(err)
	s.Equal(ErrNilMonitor, err)
	s.Nil(svc)
}

func (s *TrackerServiceTestSuite) TestStartSession_HappyPath() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	s.mockSessionRepo.EXPECT().
		CreateSessionIfNoActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.CreateSessionIfNoActiveInput) (*sessionRepo.CreateSessionIfNoActiveOutput, error) {
			draft := input.Session
			s.Equal(s.testSessionID, draft.ID)
			s.Equal(s.testUserID, draft.UserID)
			s.Equal("API-Routen testen und validieren", draft.Description)
			s.Equal("API-Routen testen und validieren", draft.Module)
			s.Equal(DefaultCategory, draft.Category)
			s.Equal(DefaultPriority, draft.Priority)
			s.Equal(models.SessionStatusActive, draft.Status)
			s.Equal(s.testTime, draft.StartTime)
			s.Equal(s.testTime, draft.LastHeartbeatAt)
			s.Nil(draft.EndTime)
			return &sessionRepo.CreateSessionIfNoActiveOutput{Session: draft}, nil
		})

	output, err := s.trackerService.StartSession(s.ctx, s.startSessionInput)

	s.Require().NoError(err)
	s.Require().NotNil(output)
	s.False(output.AlreadyActive)
	s.Equal(s.testSessionID, output.Session.ID)
}

func (s *TrackerServiceTestSuite) TestStartSession_AlreadyActive() {
	s.mockUUID.EXPECT().NewUUID().Return("unused-draft-id")

	// The repository reports the user's existing active session instead
	// of persisting the draft
	s.mockSessionRepo.EXPECT().
		CreateSessionIfNoActive(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.CreateSessionIfNoActiveOutput{
			Session:       s.expectedActiveSession,
			AlreadyActive: true,
		}, nil)

	output, err := s.trackerService.StartSession(s.ctx, s.startSessionInput)

	s.Require().NoError(err)
	s.Require().NotNil(output)
	s.True(output.AlreadyActive)
	s.Equal(s.testSessionID, output.Session.ID)
}

func (s *TrackerServiceTestSuite) TestStartSession_MissingUserID() {
	output, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		Description: "API-Routen testen und validieren",
	})

	s.Require().Error(err)
	s.Equal(ErrMissingUserID, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestStartSession_DescriptionTooShort() {
	output, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		UserID:      s.testUserID,
		Description: "kurz",
	})

	s.Require().Error(err)
	s.Equal(ErrInvalidDescription, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestStartSession_DescriptionTooLong() {
	output, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		UserID:      s.testUserID,
		Description: strings.Repeat("a", MaxDescriptionLength+1),
	})

	s.Require().Error(err)
	s.Equal(ErrInvalidDescription, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestStartSession_RejectsTechnicalNames() {
	technical := []string{
		"Timer component überarbeiten",
		"Fix in page.tsx",
		"index.ts aufräumen und testen",
		"Die route /api/sessions anpassen",
	}

	for _, description := range technical {
		output, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
			UserID:      s.testUserID,
			Description: description,
		})

		s.Require().Error(err, description)
		s.Equal(ErrInvalidDescription, err)
		s.Nil(output)
	}
}

func (s *TrackerServiceTestSuite) TestStartSession_ClassifiesTrigger() {
	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	s.mockSessionRepo.EXPECT().
		CreateSessionIfNoActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.CreateSessionIfNoActiveInput) (*sessionRepo.CreateSessionIfNoActiveOutput, error) {
			s.Equal("bugfix", input.Session.Trigger)
			return &sessionRepo.CreateSessionIfNoActiveOutput{Session: input.Session}, nil
		})

	output, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		UserID:      s.testUserID,
		Description: "Fehler im Login beheben",
	})

	s.Require().NoError(err)
	s.Equal("bugfix", output.Session.Trigger)
}

func (s *TrackerServiceTestSuite) TestStartSession_ModuleDefaultsToDescriptionPrefix() {
	longDescription := "Umfangreiche Datenbankmigration vorbereiten und die betroffenen Abfragen anpassen"

	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	s.mockSessionRepo.EXPECT().
		CreateSessionIfNoActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.CreateSessionIfNoActiveInput) (*sessionRepo.CreateSessionIfNoActiveOutput, error) {
			s.Equal(longDescription[:50], input.Session.Module)
			return &sessionRepo.CreateSessionIfNoActiveOutput{Session: input.Session}, nil
		})

	_, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		UserID:      s.testUserID,
		Description: longDescription,
	})

	s.Require().NoError(err)
}

func (s *TrackerServiceTestSuite) TestStartSession_ModulePrefixKeepsRunesIntact() {
	// 60 runes of multibyte text; the 50-rune prefix must stay valid UTF-8
	umlautDescription := strings.Repeat("ü", 60)

	s.mockUUID.EXPECT().NewUUID().Return(s.testSessionID)

	s.mockSessionRepo.EXPECT().
		CreateSessionIfNoActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.CreateSessionIfNoActiveInput) (*sessionRepo.CreateSessionIfNoActiveOutput, error) {
			s.Equal(strings.Repeat("ü", 50), input.Session.Module)
			s.True(utf8.ValidString(input.Session.Module))
			return &sessionRepo.CreateSessionIfNoActiveOutput{Session: input.Session}, nil
		})

	_, err := s.trackerService.StartSession(s.ctx, &StartSessionInput{
		UserID:      s.testUserID,
		Description: umlautDescription,
	})

	s.Require().NoError(err)
}

func (s *TrackerServiceTestSuite) TestHeartbeat_HappyPath() {
	started := s.testTime.Add(-10 * time.Minute)
	session := s.activeSessionStartedAt(started)

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			s.Equal(s.testTime, input.Session.LastHeartbeatAt)
			s.Equal(s.testTime, input.Session.UpdatedAt)
			return nil
		})

	output, err := s.trackerService.Heartbeat(s.ctx, &HeartbeatInput{
		SessionID:       s.testSessionID,
		ClientTimestamp: s.testTime.Add(-5 * time.Second),
	})

	s.Require().NoError(err)
	s.Equal(s.testTime, output.ServerTime)
}

func (s *TrackerServiceTestSuite) TestHeartbeat_ClientClockAhead() {
	ahead := s.testTime.Add(30 * time.Second)
	session := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(session, nil)

	// The stored heartbeat takes the later of the two clocks
	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			s.Equal(ahead, input.Session.LastHeartbeatAt)
			return nil
		})

	_, err := s.trackerService.Heartbeat(s.ctx, &HeartbeatInput{
		SessionID:       s.testSessionID,
		ClientTimestamp: ahead,
	})

	s.Require().NoError(err)
}

func (s *TrackerServiceTestSuite) TestHeartbeat_SessionNotFound() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	output, err := s.trackerService.Heartbeat(s.ctx, &HeartbeatInput{
		SessionID:       s.testSessionID,
		ClientTimestamp: s.testTime,
	})

	s.Require().Error(err)
	s.Equal(ErrSessionNotFound, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestHeartbeat_CompletedSession() {
	endTime := s.testTime.Add(-time.Hour)
	completed := s.activeSessionStartedAt(s.testTime.Add(-2 * time.Hour))
	completed.Status = models.SessionStatusCompleted
	completed.EndTime = &endTime

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(completed, nil)

	output, err := s.trackerService.Heartbeat(s.ctx, &HeartbeatInput{
		SessionID:       s.testSessionID,
		ClientTimestamp: s.testTime,
	})

	s.Require().Error(err)
	s.Equal(ErrInvalidSessionState, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestRecordActivity_HappyPath() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(s.expectedActiveSession, nil)

	s.mockSessionRepo.EXPECT().
		AddActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.AddActivityInput) error {
			s.Equal(s.testSessionID, input.Activity.SessionID)
			s.Equal(models.ActivityTypeGitCommit, input.Activity.Type)
			s.Equal("abc1234", input.Activity.Hash)
			s.Equal(s.testTime, input.Activity.Timestamp)
			return nil
		})

	output, err := s.trackerService.RecordActivity(s.ctx, &RecordActivityInput{
		SessionID: s.testSessionID,
		Type:      models.ActivityTypeGitCommit,
		Hash:      "abc1234",
		Message:   "fix: handle empty payload",
	})

	s.Require().NoError(err)
	s.Equal("fix: handle empty payload", output.Activity.Message)
}

func (s *TrackerServiceTestSuite) TestRecordActivity_TruncatesMessage() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(s.expectedActiveSession, nil)

	s.mockSessionRepo.EXPECT().
		AddActivity(gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.trackerService.RecordActivity(s.ctx, &RecordActivityInput{
		SessionID: s.testSessionID,
		Type:      models.ActivityTypeBuild,
		Message:   strings.Repeat("x", MaxActivityMessageLength+100),
	})

	s.Require().NoError(err)
	s.Len(output.Activity.Message, MaxActivityMessageLength)
}

func (s *TrackerServiceTestSuite) TestRecordActivity_TruncationKeepsRunesIntact() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(s.expectedActiveSession, nil)

	s.mockSessionRepo.EXPECT().
		AddActivity(gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.trackerService.RecordActivity(s.ctx, &RecordActivityInput{
		SessionID: s.testSessionID,
		Type:      models.ActivityTypeSave,
		Message:   strings.Repeat("ä", MaxActivityMessageLength+100),
	})

	s.Require().NoError(err)
	s.Equal(MaxActivityMessageLength, utf8.RuneCountInString(output.Activity.Message))
	s.True(utf8.ValidString(output.Activity.Message))
}

func (s *TrackerServiceTestSuite) TestRecordActivity_InvalidType() {
	output, err := s.trackerService.RecordActivity(s.ctx, &RecordActivityInput{
		SessionID: s.testSessionID,
		Type:      models.ActivityType("deploy"),
	})

	s.Require().Error(err)
	s.Equal(ErrInvalidActivityType, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestCompleteSession_HappyPath() {
	// Started 42 minutes of wall-clock time ago
	session := s.activeSessionStartedAt(s.testTime.Add(-42 * time.Minute))

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			s.Equal(models.SessionStatusCompleted, input.Session.Status)
			return nil
		})

	output, err := s.trackerService.CompleteSession(s.ctx, &CompleteSessionInput{
		SessionID: s.testSessionID,
	})

	s.Require().NoError(err)
	s.Equal(models.SessionStatusCompleted, output.Session.Status)
	s.Equal(42, output.Session.DurationMinutes)
	s.Require().NotNil(output.Session.EndTime)
	s.Equal(s.testTime, *output.Session.EndTime)
}

func (s *TrackerServiceTestSuite) TestCompleteSession_MergesLateFields() {
	session := s.activeSessionStartedAt(s.testTime.Add(-20 * time.Minute))

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.trackerService.CompleteSession(s.ctx, &CompleteSessionInput{
		SessionID: s.testSessionID,
		Problem:   "Cache-Invalidierung schlug fehl",
		Category:  "maintenance",
	})

	s.Require().NoError(err)
	s.Equal("Cache-Invalidierung schlug fehl", output.Session.Problem)
	s.Equal("maintenance", output.Session.Category)
}

func (s *TrackerServiceTestSuite) TestCompleteSession_AlreadyFinalized() {
	endTime := s.testTime.Add(-time.Hour)
	completed := s.activeSessionStartedAt(s.testTime.Add(-2 * time.Hour))
	completed.Status = models.SessionStatusCompleted
	completed.EndTime = &endTime

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(completed, nil)

	output, err := s.trackerService.CompleteSession(s.ctx, &CompleteSessionInput{
		SessionID: s.testSessionID,
	})

	s.Require().Error(err)
	s.Equal(ErrInvalidSessionState, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestCompleteSession_SessionNotFound() {
	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	output, err := s.trackerService.CompleteSession(s.ctx, &CompleteSessionInput{
		SessionID: s.testSessionID,
	})

	s.Require().Error(err)
	s.Equal(ErrSessionNotFound, err)
	s.Nil(output)
}

func (s *TrackerServiceTestSuite) TestMarkInterrupted_HappyPath() {
	session := s.activeSessionStartedAt(s.testTime.Add(-15 * time.Minute))

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		Return(nil)

	output, err := s.trackerService.MarkInterrupted(s.ctx, &MarkInterruptedInput{
		SessionID: s.testSessionID,
		Reason:    "Rechner abgestürzt",
	})

	s.Require().NoError(err)
	s.Equal(models.SessionStatusInterrupted, output.Session.Status)
	s.Equal("Rechner abgestürzt", output.Session.Problem)
	s.Equal(15, output.Session.DurationMinutes)
}

func (s *TrackerServiceTestSuite) TestCloseAllActive_HappyPath() {
	first := s.activeSessionStartedAt(s.testTime.Add(-30 * time.Minute))
	second := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	second.ID = "other-session-id"
	second.UserID = "other-user-id"

	s.mockSessionRepo.EXPECT().
		GetActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActiveSessionsOutput{
			Sessions: []*models.Session{first, second},
		}, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(2)

	output, err := s.trackerService.CloseAllActive(s.ctx, &CloseAllActiveInput{})

	s.Require().NoError(err)
	s.Equal(2, output.ClosedCount)
	s.Equal(models.SessionStatusCompleted, output.Sessions[0].Status)
	s.Equal(30, output.Sessions[0].DurationMinutes)
	s.Equal(10, output.Sessions[1].DurationMinutes)
}

func (s *TrackerServiceTestSuite) TestCloseAllActive_FiltersByUser() {
	mine := s.activeSessionStartedAt(s.testTime.Add(-30 * time.Minute))
	theirs := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	theirs.ID = "other-session-id"
	theirs.UserID = "other-user-id"

	s.mockSessionRepo.EXPECT().
		GetActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActiveSessionsOutput{
			Sessions: []*models.Session{mine, theirs},
		}, nil)

	// Only the requested user's session is finalized
	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			s.Equal(s.testSessionID, input.Session.ID)
			return nil
		})

	output, err := s.trackerService.CloseAllActive(s.ctx, &CloseAllActiveInput{
		UserID: s.testUserID,
	})

	s.Require().NoError(err)
	s.Equal(1, output.ClosedCount)
	s.Equal(models.SessionStatusActive, theirs.Status)
}

func (s *TrackerServiceTestSuite) TestCloseAllActive_NothingToClose() {
	s.mockSessionRepo.EXPECT().
		GetActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActiveSessionsOutput{}, nil)

	output, err := s.trackerService.CloseAllActive(s.ctx, &CloseAllActiveInput{})

	s.Require().NoError(err)
	s.Equal(0, output.ClosedCount)
	s.Empty(output.Sessions)
}

func (s *TrackerServiceTestSuite) TestSweepStale_InterruptsOnlyStaleSessions() {
	stale := s.activeSessionStartedAt(s.testTime.Add(-30 * time.Minute))
	stale.LastHeartbeatAt = s.testTime.Add(-2 * time.Minute)

	fresh := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	fresh.ID = "fresh-session-id"
	fresh.LastHeartbeatAt = s.testTime.Add(-10 * time.Second)

	s.mockSessionRepo.EXPECT().
		GetActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActiveSessionsOutput{
			Sessions: []*models.Session{stale, fresh},
		}, nil)

	s.mockSessionRepo.EXPECT().
		SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
			s.Equal(s.testSessionID, input.Session.ID)
			s.Equal(models.SessionStatusInterrupted, input.Session.Status)
			s.Equal("heartbeat timeout", input.Session.Problem)
			return nil
		})

	output, err := s.trackerService.SweepStale(s.ctx, &SweepStaleInput{})

	s.Require().NoError(err)
	s.Equal(1, output.InterruptedCount)
	s.Equal(models.SessionStatusActive, fresh.Status)
}

func (s *TrackerServiceTestSuite) TestSweepStale_AllAlive() {
	fresh := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	fresh.LastHeartbeatAt = s.testTime.Add(-10 * time.Second)

	s.mockSessionRepo.EXPECT().
		GetActiveSessions(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActiveSessionsOutput{
			Sessions: []*models.Session{fresh},
		}, nil)

	output, err := s.trackerService.SweepStale(s.ctx, &SweepStaleInput{})

	s.Require().NoError(err)
	s.Equal(0, output.InterruptedCount)
}

func (s *TrackerServiceTestSuite) TestGetStats_HappyPath() {
	endTime := s.testTime.Add(-time.Hour)
	completed := s.activeSessionStartedAt(s.testTime.Add(-2 * time.Hour))
	completed.Status = models.SessionStatusCompleted
	completed.EndTime = &endTime
	completed.DurationMinutes = 60

	s.mockSessionRepo.EXPECT().
		ListSessions(gomock.Any(), &sessionRepo.ListSessionsInput{}).
		Return(&sessionRepo.ListSessionsOutput{
			Sessions: []*models.Session{completed, s.expectedActiveSession},
		}, nil)

	output, err := s.trackerService.GetStats(s.ctx, &GetStatsInput{})

	s.Require().NoError(err)
	s.Equal(2, output.Stats.TotalSessions)
	s.Equal(1, output.Stats.ActiveSessions)
	s.Equal(60, output.Stats.TotalTime)
	s.Equal(60, output.Stats.TodayTime)
}

func (s *TrackerServiceTestSuite) TestListSessions_PassesFilters() {
	since := s.testTime.Add(-24 * time.Hour)

	s.mockSessionRepo.EXPECT().
		ListSessions(gomock.Any(), &sessionRepo.ListSessionsInput{
			UserID: s.testUserID,
			Status: models.SessionStatusCompleted,
			Since:  since,
		}).
		Return(&sessionRepo.ListSessionsOutput{}, nil)

	output, err := s.trackerService.ListSessions(s.ctx, &ListSessionsInput{
		UserID: s.testUserID,
		Status: models.SessionStatusCompleted,
		Since:  since,
	})

	s.Require().NoError(err)
	s.Empty(output.Sessions)
}

func (s *TrackerServiceTestSuite) TestGetSession_WithDirectoryNames() {
	projectID := int64(5)
	taskID := int64(9)
	session := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	session.ProjectID = &projectID
	session.TaskID = &taskID

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		GetActivities(gomock.Any(), &sessionRepo.GetActivitiesInput{SessionID: s.testSessionID}).
		Return(&sessionRepo.GetActivitiesOutput{
			Activities: []*models.Activity{
				{SessionID: s.testSessionID, Type: models.ActivityTypeSave, Timestamp: s.testTime},
			},
		}, nil)

	s.mockDirectoryRepo.EXPECT().
		GetProject(gomock.Any(), &directoryRepo.GetProjectInput{ProjectID: projectID}).
		Return(&models.Project{ID: projectID, Name: "Kundenportal"}, nil)

	s.mockDirectoryRepo.EXPECT().
		GetTask(gomock.Any(), &directoryRepo.GetTaskInput{TaskID: taskID}).
		Return(&models.Task{ID: taskID, ProjectID: projectID, Name: "API härten"}, nil)

	output, err := s.trackerService.GetSession(s.ctx, &GetSessionInput{
		SessionID: s.testSessionID,
	})

	s.Require().NoError(err)
	s.Equal("Kundenportal", output.ProjectName)
	s.Equal("API härten", output.TaskName)
	s.Len(output.Activities, 1)
}

func (s *TrackerServiceTestSuite) TestGetSession_DirectoryLookupFailureIsIgnored() {
	projectID := int64(5)
	session := s.activeSessionStartedAt(s.testTime.Add(-10 * time.Minute))
	session.ProjectID = &projectID

	s.mockSessionRepo.EXPECT().
		GetSession(gomock.Any(), gomock.Any()).
		Return(session, nil)

	s.mockSessionRepo.EXPECT().
		GetActivities(gomock.Any(), gomock.Any()).
		Return(&sessionRepo.GetActivitiesOutput{}, nil)

	s.mockDirectoryRepo.EXPECT().
		GetProject(gomock.Any(), gomock.Any()).
		Return(nil, directoryRepo.ErrProjectNotFound)

	output, err := s.trackerService.GetSession(s.ctx, &GetSessionInput{
		SessionID: s.testSessionID,
	})

	s.Require().NoError(err)
	s.Empty(output.ProjectName)
	s.Equal(s.testSessionID, output.Session.ID)
}

func (s *TrackerServiceTestSuite) TestBillableEntries_HappyPath() {
	endTime := s.testTime.Add(-time.Hour)

	billable := s.activeSessionStartedAt(s.testTime.Add(-2 * time.Hour))
	billable.Status = models.SessionStatusCompleted
	billable.EndTime = &endTime
	billable.DurationMinutes = 22
	billable.Approved = true

	unapproved := s.activeSessionStartedAt(s.testTime.Add(-3 * time.Hour))
	unapproved.ID = "unapproved-session-id"
	unapproved.Status = models.SessionStatusCompleted
	unapproved.EndTime = &endTime
	unapproved.DurationMinutes = 50

	s.mockSessionRepo.EXPECT().
		ListSessions(gomock.Any(), &sessionRepo.ListSessionsInput{
			Status: models.SessionStatusCompleted,
		}).
		Return(&sessionRepo.ListSessionsOutput{
			Sessions: []*models.Session{billable, unapproved},
		}, nil)

	output, err := s.trackerService.BillableEntries(s.ctx, &BillableEntriesInput{})

	s.Require().NoError(err)
	s.Len(output.Entries, 1)
	s.Equal(22, output.TotalMinutes)
	// 22 minutes bill as two quarter-hour blocks
	s.Equal(30, output.BilledMinutes)
}

func (s *TrackerServiceTestSuite) TestBillableEntries_RepositoryError() {
	expectedError := errors.New("failed to list sessions")

	s.mockSessionRepo.EXPECT().
		ListSessions(gomock.Any(), gomock.Any()).
		Return(nil, expectedError)

	output, err := s.trackerService.BillableEntries(s.ctx, &BillableEntriesInput{})

	s.Require().Error(err)
	s.Equal(expectedError, err)
	s.Nil(output)
}

func TestTrackerServiceSuite(t *testing.T) {
	suite.Run(t, new(TrackerServiceTestSuite))
}
