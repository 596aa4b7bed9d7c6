package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// CreateUserInput carries an admin's request to open an account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string // empty = generate one
	Role     domain.Role
	// ProjectID optionally adds the new user to a project.
	ProjectID string
}

// CreatedUser is returned by CreateUser. GeneratedPassword is set only when
// the password was generated and must be handed to the user.
type CreatedUser struct {
	User              *domain.User
	GeneratedPassword string
	Project           *ProjectRef
}

// DashboardStats summarises the workspace for the admin panel.
type DashboardStats struct {
	TotalUsers     int64
	TotalProjects  int64
	ActiveProjects int64
	TotalTasks     int64
	RecentUsers    []*domain.User
	RecentProjects []ProjectView
}

// UserService covers admin-only account management.
type UserService interface {
	CreateUser(ctx context.Context, principal *domain.User, input CreateUserInput) (*CreatedUser, error)
	ListUsers(ctx context.Context, principal *domain.User) ([]*domain.User, error)
	DeleteUser(ctx context.Context, principal *domain.User, userID string) error
	UpdateRole(ctx context.Context, principal *domain.User, userID string, role domain.Role) (*domain.User, error)
	AddUserToProject(ctx context.Context, principal *domain.User, userID, projectID string) (*ProjectView, error)
	Dashboard(ctx context.Context, principal *domain.User) (*DashboardStats, error)
}
