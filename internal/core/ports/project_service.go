package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// CreateProjectInput carries the fields of a new project.
type CreateProjectInput struct {
	Title       string
	Description string
	Members     []string
}

// UpdateProjectInput carries a partial project update. Nil fields are left unchanged.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Status      *domain.ProjectStatus
	// Members replaces the member list when non-nil; the creator is always kept.
	Members []string
}

// ProjectService defines use-case operations for projects and their members.
type ProjectService interface {
	Create(ctx context.Context, principal *domain.User, input CreateProjectInput) (*ProjectView, error)
	// List returns the projects visible to principal with the given status.
	List(ctx context.Context, principal *domain.User, status domain.ProjectStatus) ([]ProjectView, error)
	Get(ctx context.Context, principal *domain.User, projectID string) (*ProjectView, error)
	Update(ctx context.Context, principal *domain.User, projectID string, input UpdateProjectInput) (*ProjectView, error)
	Delete(ctx context.Context, principal *domain.User, projectID string) error
	AddMembers(ctx context.Context, principal *domain.User, projectID string, memberIDs []string) (*ProjectView, error)
	RemoveMembers(ctx context.Context, principal *domain.User, projectID string, memberIDs []string) (*ProjectView, error)
	Members(ctx context.Context, principal *domain.User, projectID string) ([]UserRef, error)
}
