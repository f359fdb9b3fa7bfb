package directory

// GetProjectInput identifies the project to load
type GetProjectInput struct {
	ProjectID int64
}

// GetTaskInput identifies the task to load
type GetTaskInput struct {
	TaskID int64
}
