package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

const dashboardRecentLimit = 5

// UserService implements the admin panel operations.
type UserService struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	projects ports.ProjectRepository,
	tasks ports.TaskRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *UserService {
	return &UserService{users: users, projects: projects, tasks: tasks, notifier: notifier, log: log}
}

// CreateUser opens an account. Without a password one is generated and
// returned in the result. A ProjectID that does not resolve is ignored.
func (s *UserService) CreateUser(ctx context.Context, p *domain.User, in ports.CreateUserInput) (*ports.CreatedUser, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "role must be one of: admin member")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	result := &ports.CreatedUser{}
	password := in.Password
	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return nil, err
		}
		password = generated
		result.GeneratedPassword = generated
	} else if err := checkPassword("password", password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	result.User = user
	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Str("admin_id", p.ID).Msg("user created")

	var projectTitle string
	if in.ProjectID != "" {
		project, err := s.projects.FindByID(ctx, in.ProjectID)
		switch {
		case err == nil:
			if err := s.projects.AddMembers(ctx, project.ID, []string{user.ID}); err != nil {
				return nil, fmt.Errorf("create user: add to project: %w", err)
			}
			result.Project = &ports.ProjectRef{ID: project.ID, Title: project.Title}
			projectTitle = project.Title
		case errors.Is(err, domain.ErrProjectNotFound):
			s.log.Warn().Str("project_id", in.ProjectID).Msg("create user: project not found, skipping membership")
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind:         domain.NotifyCredentials,
		To:           user.Email,
		Name:         user.Name,
		Password:     password,
		ProjectTitle: projectTitle,
		InviterName:  p.Name,
	})
	return result, nil
}

func (s *UserService) ListUsers(ctx context.Context, p *domain.User) ([]*domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the account. Project memberships that reference it are
// left in place and render as unknown users.
func (s *UserService) DeleteUser(ctx context.Context, p *domain.User, userID string) error {
	if err := requireAdmin(p); err != nil {
		return err
	}
	if userID == p.ID {
		return domain.ErrCannotDeleteSelf
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("admin_id", p.ID).Msg("user deleted")
	return nil
}

func (s *UserService) UpdateRole(ctx context.Context, p *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "role must be one of: admin member")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Str("admin_id", p.ID).Msg("role updated")
	return user, nil
}

func (s *UserService) AddUserToProject(ctx context.Context, p *domain.User, userID, projectID string) (*ports.ProjectView, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.HasMember(user.ID) {
		return nil, domain.ErrAlreadyMember
	}

	if err := s.projects.AddMembers(ctx, project.ID, []string{user.ID}); err != nil {
		return nil, fmt.Errorf("add user to project: %w", err)
	}
	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind:         domain.NotifyProjectAdded,
		To:           user.Email,
		Name:         user.Name,
		ProjectTitle: project.Title,
		InviterName:  p.Name,
	})

	project, err = s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return projectView(ctx, s.users, project)
}

func (s *UserService) Dashboard(ctx context.Context, p *domain.User) (*ports.DashboardStats, error) {
	if err := requireAdmin(p); err != nil {
		return nil, err
	}

	var (
		stats ports.DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count users: %w", err)
	}
	if stats.TotalProjects, err = s.projects.Count(ctx, ports.ProjectFilter{}); err != nil {
		return nil, fmt.Errorf("dashboard: count projects: %w", err)
	}
	if stats.ActiveProjects, err = s.projects.Count(ctx, ports.ProjectFilter{Status: domain.ProjectActive}); err != nil {
		return nil, fmt.Errorf("dashboard: count active projects: %w", err)
	}
	if stats.TotalTasks, err = s.tasks.Count(ctx); err != nil {
		return nil, fmt.Errorf("dashboard: count tasks: %w", err)
	}
	if stats.RecentUsers, err = s.users.ListRecent(ctx, dashboardRecentLimit); err != nil {
		return nil, fmt.Errorf("dashboard: recent users: %w", err)
	}
	recent, err := s.projects.ListRecent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: recent projects: %w", err)
	}
	if stats.RecentProjects, err = projectViews(ctx, s.users, recent); err != nil {
		return nil, err
	}
	return &stats, nil
}

// EnsureAdmin creates the bootstrap admin account unless an admin already
// exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	exists, err := s.users.ExistsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		return false, nil
	}
	if name == "" {
		name = "Administrator"
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:          name,
		Email:         domain.NormalizeEmail(email),
		PasswordHash:  hash,
		Role:          domain.RoleAdmin,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("bootstrap admin created")
	return true, nil
}
