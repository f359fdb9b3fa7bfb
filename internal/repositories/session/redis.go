package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lopez-it-welt/worktrack/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix    = "work_session:"
	activityKeyPrefix   = "session_activity:"
	userActiveKeyPrefix = "user_active_session:"
	activeSessionsKey   = "active_sessions"
	sessionsByStartKey  = "sessions_by_start"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// releaseSlotScript frees the user's active-session marker only if it
// still points at the session being finalized, so a newly started
// session can never lose its claim to a late finalization.
var releaseSlotScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// claimSlotScript claims the user's active-session slot and installs
// the draft record in the same script, so a held slot always resolves
// to a readable record. A slot pointing at a live active record wins
// and its id is returned; a slot pointing at a vanished or finalized
// record is taken over. KEYS: slot, draft session key. ARGV: draft id,
// draft JSON, session key prefix.
var claimSlotScript = redis.NewScript(`
local current = redis.call("get", KEYS[1])
if current then
	local record = redis.call("get", ARGV[3] .. current)
	if record then
		local session = cjson.decode(record)
		if session["status"] == "active" then
			return current
		end
	end
end
redis.call("set", KEYS[1], ARGV[1])
redis.call("set", KEYS[2], ARGV[2])
return false
`)

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveSession persists a session to Redis and keeps the active-session
// indexes in step with its status
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Keep the history index ordered by start time
	pipe.ZAdd(ctx, sessionsByStartKey, redis.Z{
		Score:  float64(input.Session.StartTime.UnixNano()),
		Member: input.Session.ID,
	})

	userActiveKey := fmt.Sprintf("%s%s", userActiveKeyPrefix, input.Session.UserID)
	if input.Session.Status == models.SessionStatusActive {
		pipe.SAdd(ctx, activeSessionsKey, input.Session.ID)
		pipe.Set(ctx, userActiveKey, input.Session.ID, 0)
	} else {
		pipe.SRem(ctx, activeSessionsKey, input.Session.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	// Finalization frees the user's slot, but only if it still points here
	if input.Session.Status != models.SessionStatusActive {
		if err := releaseSlotScript.Run(ctx, r.client, []string{userActiveKey}, input.Session.ID).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to release active-session slot: %w", err)
		}
	}

	return nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// GetActiveSessionByUser retrieves the user's active session from Redis
func (r *redisRepository) GetActiveSessionByUser(ctx context.Context, input *GetActiveSessionByUserInput) (*models.Session, error) {
	if input == nil || input.UserID == "" {
		return nil, errors.New("input and user ID cannot be empty")
	}

	userActiveKey := fmt.Sprintf("%s%s", userActiveKeyPrefix, input.UserID)
	sessionID, err := r.client.Get(ctx, userActiveKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get active session ID for user: %w", err)
	}

	return r.GetSession(ctx, &GetSessionInput{
		SessionID: sessionID,
	})
}

// GetActiveSessions retrieves all active sessions from Redis
func (r *redisRepository) GetActiveSessions(ctx context.Context, input *GetActiveSessionsInput) (*GetActiveSessionsOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active session IDs: %w", err)
	}

	sessions, err := r.getSessionsByIDs(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	return &GetActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}

// ListSessions retrieves the session history ordered by start time
func (r *redisRepository) ListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	if input == nil {
		input = &ListSessionsInput{}
	}

	sessionIDs, err := r.client.ZRange(ctx, sessionsByStartKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs: %w", err)
	}

	sessions, err := r.getSessionsByIDsOrdered(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	filtered := make([]*models.Session, 0, len(sessions))
	for _, session := range sessions {
		if input.UserID != "" && session.UserID != input.UserID {
			continue
		}
		if input.Status != "" && session.Status != input.Status {
			continue
		}
		if !input.Since.IsZero() && session.StartTime.Before(input.Since) {
			continue
		}
		filtered = append(filtered, session)
	}

	return &ListSessionsOutput{
		Sessions: filtered,
	}, nil
}

// CreateSessionIfNoActive atomically claims the user's active-session
// slot and creates the draft session. Claim and record land in one
// script, so a concurrent caller that observes the slot always finds a
// readable record behind it and can never misread an in-flight start
// as a dangling marker. Exactly one concurrent caller wins; losers get
// the winner's session back with AlreadyActive set.
func (r *redisRepository) CreateSessionIfNoActive(ctx context.Context, input *CreateSessionIfNoActiveInput) (*CreateSessionIfNoActiveOutput, error) {
	if input == nil || input.Session == nil {
		return nil, errors.New("input and session cannot be nil")
	}

	if input.Session.ID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	if input.Session.UserID == "" {
		return nil, errors.New("user ID cannot be empty")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	userActiveKey := fmt.Sprintf("%s%s", userActiveKeyPrefix, input.Session.UserID)
	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)

	result, err := claimSlotScript.Run(ctx, r.client,
		[]string{userActiveKey, sessionKey},
		input.Session.ID, sessionJSON, sessionKeyPrefix,
	).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to claim active-session slot: %w", err)
	}

	// A non-nil reply is the id of the live active session already
	// holding the slot
	if err == nil {
		existingID, ok := result.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected slot claim reply: %v", result)
		}

		existing, err := r.GetSession(ctx, &GetSessionInput{SessionID: existingID})
		if err != nil {
			return nil, fmt.Errorf("failed to load existing active session %s: %w", existingID, err)
		}

		return &CreateSessionIfNoActiveOutput{
			Session:       existing,
			AlreadyActive: true,
		}, nil
	}

	// Claimed: the record is installed; fill in the membership indexes
	if err := r.SaveSession(ctx, &SaveSessionInput{Session: input.Session}); err != nil {
		return nil, err
	}

	return &CreateSessionIfNoActiveOutput{
		Session: input.Session,
	}, nil
}

// AddActivity appends an activity marker to the session's log
func (r *redisRepository) AddActivity(ctx context.Context, input *AddActivityInput) error {
	if input == nil || input.Activity == nil {
		return errors.New("input and activity cannot be nil")
	}

	if input.Activity.SessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	activityJSON, err := json.Marshal(input.Activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	activityKey := fmt.Sprintf("%s%s", activityKeyPrefix, input.Activity.SessionID)
	if err := r.client.RPush(ctx, activityKey, activityJSON).Err(); err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}

	return nil
}

// GetActivities retrieves the session's activity log in insertion order
func (r *redisRepository) GetActivities(ctx context.Context, input *GetActivitiesInput) (*GetActivitiesOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	activityKey := fmt.Sprintf("%s%s", activityKeyPrefix, input.SessionID)
	entries, err := r.client.LRange(ctx, activityKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	activities := make([]*models.Activity, 0, len(entries))
	for _, entry := range entries {
		var activity models.Activity
		if err := json.Unmarshal([]byte(entry), &activity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity: %w", err)
		}
		activities = append(activities, &activity)
	}

	return &GetActivitiesOutput{
		Activities: activities,
	}, nil
}

// getSessionsByIDs fetches sessions in one pipeline; order is not preserved
func (r *redisRepository) getSessionsByIDs(ctx context.Context, sessionIDs []string) ([]*models.Session, error) {
	if len(sessionIDs) == 0 {
		return []*models.Session{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd)

	for _, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		commands[sessionID] = pipe.Get(ctx, sessionKey)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for sessionID, cmd := range commands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Session was removed between the index read and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}

// getSessionsByIDsOrdered fetches sessions in one pipeline, preserving
// the given id order
func (r *redisRepository) getSessionsByIDsOrdered(ctx context.Context, sessionIDs []string) ([]*models.Session, error) {
	if len(sessionIDs) == 0 {
		return []*models.Session{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make([]*redis.StringCmd, 0, len(sessionIDs))

	for _, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		commands = append(commands, pipe.Get(ctx, sessionKey))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	sessions := make([]*models.Session, 0, len(sessionIDs))
	for i, cmd := range commands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionIDs[i], err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionIDs[i], err)
		}

		sessions = append(sessions, &session)
	}

	return sessions, nil
}
