package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// CommentRepository defines persistence operations for task comments.
// Lookups of absent comments return domain.ErrCommentNotFound.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// ListByTask returns the task's comments, oldest first.
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
}
