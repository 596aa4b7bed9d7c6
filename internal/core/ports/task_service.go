package ports

import (
	"context"
	"time"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task. Empty status and
// priority fall back to todo and medium.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssignedTo  string
	DueDate     *time.Time
}

// UpdateTaskInput carries a partial task update. AssignedTo and DueDate can
// be cleared with an explicit null.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssignedTo  Optional[string]
	DueDate     Optional[time.Time]
}

// TaskQuery carries the optional filters of task listings.
type TaskQuery struct {
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	AssignedTo string
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	Create(ctx context.Context, principal *domain.User, projectID string, input CreateTaskInput) (*TaskView, error)
	List(ctx context.Context, principal *domain.User, projectID string, query TaskQuery) ([]TaskView, error)
	Get(ctx context.Context, principal *domain.User, taskID string) (*TaskView, error)
	Update(ctx context.Context, principal *domain.User, taskID string, input UpdateTaskInput) (*TaskView, error)
	Delete(ctx context.Context, principal *domain.User, taskID string) error
	// MyTasks lists tasks assigned to principal, or every task for an admin.
	MyTasks(ctx context.Context, principal *domain.User, query TaskQuery) ([]TaskView, error)
	Stats(ctx context.Context, principal *domain.User, projectID string) (*domain.TaskStats, error)
}
