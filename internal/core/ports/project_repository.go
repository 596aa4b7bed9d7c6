package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// ProjectFilter narrows project listings. Zero values mean no filter.
type ProjectFilter struct {
	MemberID string // only projects listing this user as a member
	Status   domain.ProjectStatus
}

// ProjectRepository defines persistence operations for projects.
// Lookups of absent projects return domain.ErrProjectNotFound.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns matching projects, most recently updated first.
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	// AddMembers adds ids with set semantics; existing members are left alone.
	AddMembers(ctx context.Context, projectID string, ids []string) error
	RemoveMembers(ctx context.Context, projectID string, ids []string) error
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
}
