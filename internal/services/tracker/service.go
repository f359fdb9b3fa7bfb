package tracker

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
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

// technicalNamePatterns reject descriptions that name code artifacts
// instead of describing the work ("Tätigkeit"). The route pattern is
// bounded so natural language like "API-Routen testen" still passes.
var technicalNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.tsx?$`),
	regexp.MustCompile(`(?i)\.jsx?$`),
	regexp.MustCompile(`(?i)component`),
	regexp.MustCompile(`(?i)\broute\b`),
	regexp.MustCompile(`(?i)index\.`),
}

// service implements the Service interface
type service struct {
	sessionRepo   sessionRepo.Repository
	directoryRepo directoryRepo.Repository
	monitor       *heartbeat.Monitor
	aggregator    *stats.Aggregator
	billingGate   *billing.Gate
	classifier    *trigger.Classifier
	clock         clock.Clock
	uuider        uuid.UUID
}

// New creates a new tracker service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Monitor == nil {
		return nil, ErrNilMonitor
	}

	if cfg.Aggregator == nil {
		return nil, ErrNilAggregator
	}

	if cfg.BillingGate == nil {
		return nil, ErrNilBillingGate
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	return &service{
		sessionRepo:   cfg.SessionRepo,
		directoryRepo: cfg.DirectoryRepo,
		monitor:       cfg.Monitor,
		aggregator:    cfg.Aggregator,
		billingGate:   cfg.BillingGate,
		classifier:    cfg.Classifier,
		clock:         cfg.Clock,
		uuider:        cfg.UUIDGenerator,
	}, nil
}

// StartSession creates a new work session unless the user already has
// an active one. The check-then-create is atomic in the repository, so
// concurrent starts for the same user resolve to exactly one winner.
func (s *service) StartSession(ctx context.Context, input *StartSessionInput) (*StartSessionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.UserID == "" {
		return nil, ErrMissingUserID
	}

	description := strings.TrimSpace(input.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	category := input.Category
	if category == "" {
		category = DefaultCategory
	}

	priority := input.Priority
	if priority == "" {
		priority = DefaultPriority
	}

	module := input.Module
	if module == "" {
		module = truncateRunes(description, 50)
	}

	triggerValue := input.Trigger
	if triggerValue == "" && s.classifier != nil {
		triggerValue = s.classifier.Classify(description)
	}

	draft := &models.Session{
		ID:              s.uuider.NewUUID(),
		UserID:          input.UserID,
		ProjectID:       input.ProjectID,
		TaskID:          input.TaskID,
		Module:          module,
		Description:     description,
		Trigger:         triggerValue,
		Problem:         input.Problem,
		Category:        category,
		Priority:        priority,
		Status:          models.SessionStatusActive,
		StartTime:       now,
		LastHeartbeatAt: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := s.sessionRepo.CreateSessionIfNoActive(ctx, &sessionRepo.CreateSessionIfNoActiveInput{
		Session: draft,
	})
	if err != nil {
		return nil, err
	}

	return &StartSessionOutput{
		Session:       result.Session,
		AlreadyActive: result.AlreadyActive,
	}, nil
}

// Heartbeat records a liveness signal for an active session. The
// stored timestamp is the max of server time and the client's clock,
// so late or reordered beats never move it backwards.
func (s *service) Heartbeat(ctx context.Context, input *HeartbeatInput) (*HeartbeatOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionStatusActive {
		return nil, ErrInvalidSessionState
	}

	now := s.clock.Now()

	seen := now
	if input.ClientTimestamp.After(seen) {
		seen = input.ClientTimestamp
	}
	if seen.After(session.LastHeartbeatAt) {
		session.LastHeartbeatAt = seen
	}
	session.UpdatedAt = now

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: session}); err != nil {
		return nil, err
	}

	return &HeartbeatOutput{
		SessionID:  session.ID,
		ServerTime: now,
		ClientTime: input.ClientTimestamp,
	}, nil
}

// RecordActivity appends an activity marker to a session's log. Only
// metadata is stored; the note is capped at 255 characters.
func (s *service) RecordActivity(ctx context.Context, input *RecordActivityInput) (*RecordActivityOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	switch input.Type {
	case models.ActivityTypeGitCommit, models.ActivityTypeBuild, models.ActivityTypeTest, models.ActivityTypeSave:
	default:
		return nil, ErrInvalidActivityType
	}

	if _, err := s.getSession(ctx, input.SessionID); err != nil {
		return nil, err
	}

	message := truncateRunes(input.Message, MaxActivityMessageLength)

	activity := &models.Activity{
		SessionID: input.SessionID,
		Type:      input.Type,
		Hash:      input.Hash,
		Message:   message,
		Timestamp: s.clock.Now(),
	}

	if err := s.sessionRepo.AddActivity(ctx, &sessionRepo.AddActivityInput{Activity: activity}); err != nil {
		return nil, err
	}

	return &RecordActivityOutput{
		Activity: activity,
	}, nil
}

// CompleteSession finalizes an active session as completed and merges
// late-supplied fields
func (s *service) CompleteSession(ctx context.Context, input *CompleteSessionInput) (*CompleteSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionStatusActive {
		return nil, ErrInvalidSessionState
	}

	if input.Problem != "" {
		session.Problem = input.Problem
	}
	if input.Category != "" {
		session.Category = input.Category
	}

	s.finalize(session, models.SessionStatusCompleted, s.clock.Now())

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: session}); err != nil {
		return nil, err
	}

	return &CompleteSessionOutput{
		Session: session,
	}, nil
}

// MarkInterrupted finalizes an active session as interrupted
func (s *service) MarkInterrupted(ctx context.Context, input *MarkInterruptedInput) (*MarkInterruptedOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionStatusActive {
		return nil, ErrInvalidSessionState
	}

	if input.Reason != "" {
		session.Problem = input.Reason
	}

	s.finalize(session, models.SessionStatusInterrupted, s.clock.Now())

	if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: session}); err != nil {
		return nil, err
	}

	return &MarkInterruptedOutput{
		Session: session,
	}, nil
}

// CloseAllActive finalizes every active session as completed. It is
// idempotent: with nothing to close it reports a count of zero and
// changes nothing.
func (s *service) CloseAllActive(ctx context.Context, input *CloseAllActiveInput) (*CloseAllActiveOutput, error) {
	if input == nil {
		input = &CloseAllActiveInput{}
	}

	active, err := s.sessionRepo.GetActiveSessions(ctx, &sessionRepo.GetActiveSessionsInput{})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	closed := make([]*models.Session, 0, len(active.Sessions))

	for _, session := range active.Sessions {
		if input.UserID != "" && session.UserID != input.UserID {
			continue
		}

		s.finalize(session, models.SessionStatusCompleted, now)

		if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: session}); err != nil {
			return nil, fmt.Errorf("failed to close session %s: %w", session.ID, err)
		}

		closed = append(closed, session)
	}

	return &CloseAllActiveOutput{
		ClosedCount: len(closed),
		Sessions:    closed,
	}, nil
}

// SweepStale interrupts every active session whose last heartbeat is
// older than the monitor's threshold. Detection lives in the monitor;
// this is the policy that acts on it.
func (s *service) SweepStale(ctx context.Context, input *SweepStaleInput) (*SweepStaleOutput, error) {
	active, err := s.sessionRepo.GetActiveSessions(ctx, &sessionRepo.GetActiveSessionsInput{})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	staleIDs := s.monitor.StaleSessions(active.Sessions, now)

	byID := make(map[string]*models.Session, len(active.Sessions))
	for _, session := range active.Sessions {
		byID[session.ID] = session
	}

	interrupted := make([]*models.Session, 0, len(staleIDs))
	for _, sessionID := range staleIDs {
		session := byID[sessionID]

		session.Problem = "heartbeat timeout"
		s.finalize(session, models.SessionStatusInterrupted, now)

		if err := s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{Session: session}); err != nil {
			return nil, fmt.Errorf("failed to interrupt stale session %s: %w", session.ID, err)
		}

		interrupted = append(interrupted, session)
	}

	return &SweepStaleOutput{
		InterruptedCount: len(interrupted),
		Sessions:         interrupted,
	}, nil
}

// GetStats aggregates the full session history
func (s *service) GetStats(ctx context.Context, input *GetStatsInput) (*GetStatsOutput, error) {
	if input == nil {
		input = &GetStatsInput{}
	}

	reference := input.Reference
	if reference.IsZero() {
		reference = s.clock.Now()
	}

	all, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{})
	if err != nil {
		return nil, err
	}

	return &GetStatsOutput{
		Stats: s.aggregator.Aggregate(all.Sessions, reference),
	}, nil
}

// ListSessions retrieves the session history, optionally filtered
func (s *service) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil {
		input = &ListSessionsInput{}
	}

	result, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{
		UserID: input.UserID,
		Status: input.Status,
		Since:  input.Since,
	})
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{
		Sessions: result.Sessions,
	}, nil
}

// GetSession retrieves one session with its activity log and, when a
// directory is wired, the display names for its associations. Lookup
// failures only cost the names, never the session.
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	session, err := s.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	activities, err := s.sessionRepo.GetActivities(ctx, &sessionRepo.GetActivitiesInput{
		SessionID: session.ID,
	})
	if err != nil {
		return nil, err
	}

	output := &GetSessionOutput{
		Session:    session,
		Activities: activities.Activities,
	}

	if s.directoryRepo != nil {
		if session.ProjectID != nil {
			if project, err := s.directoryRepo.GetProject(ctx, &directoryRepo.GetProjectInput{ProjectID: *session.ProjectID}); err == nil {
				output.ProjectName = project.Name
			}
		}
		if session.TaskID != nil {
			if task, err := s.directoryRepo.GetTask(ctx, &directoryRepo.GetTaskInput{TaskID: *session.TaskID}); err == nil {
				output.TaskName = task.Name
			}
		}
	}

	return output, nil
}

// BillableEntries returns the billable subset of completed sessions
// and its totals
func (s *service) BillableEntries(ctx context.Context, input *BillableEntriesInput) (*BillableEntriesOutput, error) {
	completed, err := s.sessionRepo.ListSessions(ctx, &sessionRepo.ListSessionsInput{
		Status: models.SessionStatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	entries := s.billingGate.BillableEntries(completed.Sessions)

	return &BillableEntriesOutput{
		Entries:       entries,
		TotalMinutes:  s.billingGate.TotalBillableMinutes(completed.Sessions),
		BilledMinutes: s.billingGate.TotalBilledMinutes(completed.Sessions),
	}, nil
}

// getSession loads a session and maps the repository's not-found
// sentinel onto the service error
func (s *service) getSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// finalize moves a session into a terminal state, setting the end time
// exactly once and deriving the duration. Durations are never negative.
func (s *service) finalize(session *models.Session, status models.SessionStatus, now time.Time) {
	end := now
	session.Status = status
	session.EndTime = &end
	session.UpdatedAt = now

	minutes := int(math.Round(end.Sub(session.StartTime).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	session.DurationMinutes = minutes
}

// truncateRunes caps a string at max characters without splitting a
// multibyte rune
func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

// validateDescription enforces the "Tätigkeit" rules: 8-180 characters
// and no technical artifact names
func validateDescription(description string) error {
	length := len([]rune(description))
	if length < MinDescriptionLength || length > MaxDescriptionLength {
		return ErrInvalidDescription
	}

	for _, pattern := range technicalNamePatterns {
		if pattern.MatchString(description) {
			return ErrInvalidDescription
		}
	}

	return nil
}
