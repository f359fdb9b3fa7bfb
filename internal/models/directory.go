package models

// Project is a read-only view of a project used for display enrichment.
// The engine stores only the foreign id and never validates the reference.
type Project struct {
	// ID is the project identifier
	ID int64 `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// CustomerName is the customer the project belongs to
	CustomerName string `json:"customer_name,omitempty"`
}

// Task is a read-only view of a task used for display enrichment
type Task struct {
	// ID is the task identifier
	ID int64 `json:"id"`

	// ProjectID is the project the task belongs to
	ProjectID int64 `json:"project_id"`

	// Name is the display name
	Name string `json:"name"`
}
