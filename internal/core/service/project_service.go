package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/policy"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, log: log}
}

// Create stores a new active project owned by principal. Every listed member
// must exist; the creator is always added.
func (s *ProjectService) Create(ctx context.Context, p *domain.User, in ports.CreateProjectInput) (*ports.ProjectView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}

	members := domain.NormalizeMembers(p.ID, in.Members)
	if err := checkUsersExist(ctx, s.users, members[1:]); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	project, err := s.projects.Create(ctx, &domain.Project{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Members:     members,
		CreatedBy:   p.ID,
		Status:      domain.ProjectActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", p.ID).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info().Str("project_id", project.ID).Str("user_id", p.ID).Int("members", len(members)).Msg("project created")
	return projectView(ctx, s.users, project)
}

// List returns the projects with the given status that principal can see.
// An empty status means active. Admins see every project.
func (s *ProjectService) List(ctx context.Context, p *domain.User, status domain.ProjectStatus) ([]ports.ProjectView, error) {
	if status == "" {
		status = domain.ProjectActive
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "status must be one of: active archived completed")
	}

	filter := ports.ProjectFilter{Status: status}
	if !p.IsAdmin() {
		filter.MemberID = p.ID
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projectViews(ctx, s.users, projects)
}

func (s *ProjectService) Get(ctx context.Context, p *domain.User, projectID string) (*ports.ProjectView, error) {
	project, err := s.load(ctx, p, projectID, policy.AccessProject)
	if err != nil {
		return nil, err
	}
	return projectView(ctx, s.users, project)
}

func (s *ProjectService) Update(ctx context.Context, p *domain.User, projectID string, in ports.UpdateProjectInput) (*ports.ProjectView, error) {
	project, err := s.load(ctx, p, projectID, policy.ModifyProject)
	if err != nil {
		return nil, err
	}

	if title := trimmed(in.Title); title != nil {
		if *title == "" {
			return nil, domain.NewValidationError("title", "title cannot be empty")
		}
		project.Title = *title
	}
	if desc := trimmed(in.Description); desc != nil {
		project.Description = *desc
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.NewValidationError("status", "status must be one of: active archived completed")
		}
		project.Status = *in.Status
	}
	if in.Members != nil {
		members := domain.NormalizeMembers(project.CreatedBy, in.Members)
		if err := checkUsersExist(ctx, s.users, members[1:]); err != nil {
			return nil, err
		}
		project.Members = members
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return projectView(ctx, s.users, project)
}

// Delete removes the project only. Its tasks are left in place.
func (s *ProjectService) Delete(ctx context.Context, p *domain.User, projectID string) error {
	if _, err := s.load(ctx, p, projectID, policy.DeleteProject); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info().Str("project_id", projectID).Str("user_id", p.ID).Msg("project deleted")
	return nil
}

// AddMembers adds the given users. It fails with ErrAlreadyMember when every
// id is already a member, leaving the project untouched.
func (s *ProjectService) AddMembers(ctx context.Context, p *domain.User, projectID string, ids []string) (*ports.ProjectView, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("memberIds", "memberIds must contain at least one user id")
	}
	project, err := s.load(ctx, p, projectID, policy.ModifyProject)
	if err != nil {
		return nil, err
	}

	fresh := project.MissingMembers(ids)
	if len(fresh) == 0 {
		return nil, domain.ErrAlreadyMember
	}
	if err := checkUsersExist(ctx, s.users, fresh); err != nil {
		return nil, err
	}

	if err := s.projects.AddMembers(ctx, projectID, fresh); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	return s.reload(ctx, projectID)
}

// RemoveMembers drops the given users. Naming the creator is always rejected.
func (s *ProjectService) RemoveMembers(ctx context.Context, p *domain.User, projectID string, ids []string) (*ports.ProjectView, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("memberIds", "memberIds must contain at least one user id")
	}
	project, err := s.load(ctx, p, projectID, policy.ModifyProject)
	if err != nil {
		return nil, err
	}

	// Ids are hex and parse case-insensitively downstream.
	ids = canonicalIDs(ids)
	for _, id := range ids {
		if project.IsCreator(id) {
			return nil, domain.ErrCannotRemoveCreator
		}
	}

	if err := s.projects.RemoveMembers(ctx, projectID, ids); err != nil {
		return nil, fmt.Errorf("remove members: %w", err)
	}
	return s.reload(ctx, projectID)
}

func (s *ProjectService) Members(ctx context.Context, p *domain.User, projectID string) ([]ports.UserRef, error) {
	project, err := s.load(ctx, p, projectID, policy.AccessProject)
	if err != nil {
		return nil, err
	}
	dir, err := loadUsers(ctx, s.users, project.Members)
	if err != nil {
		return nil, err
	}
	refs := make([]ports.UserRef, 0, len(project.Members))
	for _, id := range project.Members {
		refs = append(refs, dir.ref(id))
	}
	return refs, nil
}

// load fetches the project and applies the policy for action.
func (s *ProjectService) load(ctx context.Context, p *domain.User, projectID string, action policy.Action) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var allowed bool
	switch action {
	case policy.DeleteProject:
		allowed = policy.CanDeleteProject(p, project)
	case policy.ModifyProject:
		allowed = policy.CanModifyProject(p, project)
	default:
		allowed = policy.CanAccessProject(p, project)
	}
	if !allowed {
		s.log.Warn().Str("user_id", p.ID).Str("project_id", projectID).Str("action", string(action)).Msg("access denied")
		return nil, forbid(action)
	}
	return project, nil
}

func (s *ProjectService) reload(ctx context.Context, projectID string) (*ports.ProjectView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return projectView(ctx, s.users, project)
}
