package directory

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/lopez-it-welt/worktrack/internal/repositories/directory Repository

import (
	"context"

	"github.com/lopez-it-welt/worktrack/internal/models"
)

// Repository defines read-only lookups into the project/task directory.
// The lifecycle engine only stores foreign ids; this is the collaborator
// that resolves them to display names.
type Repository interface {
	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, input *GetProjectInput) (*models.Project, error)

	// GetTask retrieves a task by ID
	GetTask(ctx context.Context, input *GetTaskInput) (*models.Task, error)
}
