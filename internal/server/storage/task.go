package storage

import (
	"context"

	"github.com/iudanet/gophtodo/internal/models"
)

// TaskStorage defines interface for task persistence.
// All lookups are scoped to the owner: a task of another user
// is reported as ErrTaskNotFound.
type TaskStorage interface {
	// CreateTask stores a new task
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by ID for the given owner
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasks returns owner's tasks, newest first.
	// Empty status means all statuses.
	ListTasks(ctx context.Context, userID string, status models.TaskStatus) ([]*models.Task, error)

	// UpdateTask updates title, description, status and due date
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask deletes a task by ID for the given owner
	DeleteTask(ctx context.Context, userID, taskID string) error
}
