package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// TaskFilter narrows task listings. Zero values mean no filter.
type TaskFilter struct {
	ProjectID  string
	Status     domain.TaskStatus
	Priority   domain.TaskPriority
	AssignedTo string
	// ByDueDate orders by due date ascending, then newest first.
	// Otherwise results are newest first.
	ByDueDate bool
}

// TaskRepository defines persistence operations for tasks.
// Lookups of absent tasks return domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	PushComment(ctx context.Context, taskID, commentID string) error
	PullComment(ctx context.Context, taskID, commentID string) error
	Count(ctx context.Context) (int64, error)
	// Stats counts the project's tasks by status and by priority.
	Stats(ctx context.Context, projectID string) (domain.TaskStats, error)
}
