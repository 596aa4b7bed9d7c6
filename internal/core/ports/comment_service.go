package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// CommentService defines use-case operations for task comments.
type CommentService interface {
	Add(ctx context.Context, principal *domain.User, taskID, text string) (*CommentView, error)
	List(ctx context.Context, principal *domain.User, taskID string) ([]CommentView, error)
	Update(ctx context.Context, principal *domain.User, commentID, text string) (*CommentView, error)
	Delete(ctx context.Context, principal *domain.User, commentID string) error
}
