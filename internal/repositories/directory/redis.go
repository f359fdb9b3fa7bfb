package directory

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
	projectKeyPrefix = "project:"
	taskKeyPrefix    = "task:"
)

// ErrProjectNotFound is returned when a project is not found
var ErrProjectNotFound = errors.New("project not found")

// ErrTaskNotFound is returned when a task is not found
var ErrTaskNotFound = errors.New("task not found")

// Config holds configuration for the Redis directory repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis.
// The directory is written by the project/customer administration,
// this repository only reads it.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed directory repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetProject retrieves a project by ID from Redis
func (r *redisRepository) GetProject(ctx context.Context, input *GetProjectInput) (*models.Project, error) {
	if input == nil || input.ProjectID == 0 {
		return nil, errors.New("input and project ID cannot be empty")
	}

	projectKey := fmt.Sprintf("%s%d", projectKeyPrefix, input.ProjectID)
	projectJSON, err := r.client.Get(ctx, projectKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var project models.Project
	if err := json.Unmarshal([]byte(projectJSON), &project); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}

	return &project, nil
}

// GetTask retrieves a task by ID from Redis
func (r *redisRepository) GetTask(ctx context.Context, input *GetTaskInput) (*models.Task, error) {
	if input == nil || input.TaskID == 0 {
		return nil, errors.New("input and task ID cannot be empty")
	}

	taskKey := fmt.Sprintf("%s%d", taskKeyPrefix, input.TaskID)
	taskJSON, err := r.client.Get(ctx, taskKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task models.Task
	if err := json.Unmarshal([]byte(taskJSON), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	return &task, nil
}
