package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups of absent users return domain.ErrUserNotFound; Create and Update
// return domain.ErrUserExists on an email collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExistsWithRole(ctx context.Context, role domain.Role) (bool, error)
}
