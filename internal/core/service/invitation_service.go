package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/policy"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// RedemptionStore remembers which invitation tokens were already redeemed (Redis).
type RedemptionStore interface {
	IsRedeemed(ctx context.Context, tokenID string) (bool, error)
	MarkRedeemed(ctx context.Context, tokenID string, ttl time.Duration) error
}

type InvitationService struct {
	projects    ports.ProjectRepository
	users       ports.UserRepository
	tokens      *TokenManager
	redemptions RedemptionStore
	notifier    ports.Notifier
	log         zerolog.Logger
}

func NewInvitationService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	tokens *TokenManager,
	redemptions RedemptionStore,
	notifier ports.Notifier,
	log zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		projects:    projects,
		users:       users,
		tokens:      tokens,
		redemptions: redemptions,
		notifier:    notifier,
		log:         log,
	}
}

// Invite adds an existing account straight to the project, or mints and
// mails an invitation token for an unknown email.
func (s *InvitationService) Invite(ctx context.Context, p *domain.User, projectID, email string) (*ports.InviteResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "email is required")
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanInvite(p, project) {
		s.log.Warn().Str("user_id", p.ID).Str("project_id", projectID).Msg("invite denied")
		return nil, forbid(policy.Invite)
	}
	ref := ports.ProjectRef{ID: project.ID, Title: project.Title}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if project.HasMember(existing.ID) {
			return nil, domain.ErrAlreadyMember
		}
		if err := s.projects.AddMembers(ctx, project.ID, []string{existing.ID}); err != nil {
			return nil, fmt.Errorf("invite: add member: %w", err)
		}
		s.log.Info().Str("project_id", project.ID).Str("user_id", existing.ID).Msg("existing user added to project")
		notify(ctx, s.notifier, s.log, domain.Notification{
			Kind:         domain.NotifyProjectAdded,
			To:           existing.Email,
			Name:         existing.Name,
			ProjectTitle: project.Title,
			InviterName:  p.Name,
		})
		return &ports.InviteResult{Outcome: domain.InviteMemberAdded, Email: email, Project: ref}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("invite: %w", err)
	}

	token, claims, err := s.tokens.IssueInvitation(email, project.ID)
	if err != nil {
		return nil, fmt.Errorf("invite: sign token: %w", err)
	}

	s.log.Info().Str("project_id", project.ID).Str("token_id", claims.TokenID).Msg("invitation issued")
	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind:         domain.NotifyInvitation,
		To:           email,
		ProjectTitle: project.Title,
		InviterName:  p.Name,
		Token:        token,
	})
	return &ports.InviteResult{Outcome: domain.InviteSent, Email: email, Token: token, Project: ref}, nil
}

// Verify decodes a token for display without side effects.
func (s *InvitationService) Verify(ctx context.Context, token string) (*ports.InvitationDetails, error) {
	claims, err := s.tokens.ParseInvitation(token)
	if err != nil {
		return nil, err
	}
	project, err := s.findProject(ctx, claims.ProjectID)
	if err != nil {
		return nil, err
	}
	return &ports.InvitationDetails{
		Email:              claims.Email,
		ProjectID:          project.ID,
		ProjectTitle:       project.Title,
		ProjectDescription: project.Description,
	}, nil
}

// Accept redeems a token: it creates a pre-verified member account, joins it
// to the project and returns a session. A token is accepted once; a second
// attempt fails with ErrAlreadyRegistered.
func (s *InvitationService) Accept(ctx context.Context, token, name, password string) (*ports.AcceptResult, error) {
	claims, err := s.tokens.ParseInvitation(token)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if err := checkPassword("password", password); err != nil {
		return nil, err
	}

	if s.redemptions != nil {
		redeemed, err := s.redemptions.IsRedeemed(ctx, claims.TokenID)
		if err != nil {
			s.log.Warn().Err(err).Str("token_id", claims.TokenID).Msg("redemption check failed, continuing")
		} else if redeemed {
			return nil, domain.ErrAlreadyRegistered
		}
	}

	if _, err := s.users.FindByEmail(ctx, claims.Email); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	project, err := s.findProject(ctx, claims.ProjectID)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:          name,
		Email:         claims.Email,
		PasswordHash:  hash,
		Role:          domain.RoleMember,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("accept invitation: create user: %w", err)
	}

	// No rollback: a failure here leaves an account without the membership.
	if err := s.projects.AddMembers(ctx, project.ID, []string{user.ID}); err != nil {
		return nil, fmt.Errorf("accept invitation: add member: %w", err)
	}

	if s.redemptions != nil {
		if err := s.redemptions.MarkRedeemed(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
			s.log.Warn().Err(err).Str("token_id", claims.TokenID).Msg("failed to record redemption")
		}
	}

	session, err := s.tokens.IssueSession(user)
	if err != nil {
		return nil, fmt.Errorf("accept invitation: sign session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("project_id", project.ID).Msg("invitation redeemed")
	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind:         domain.NotifyWelcome,
		To:           user.Email,
		Name:         user.Name,
		ProjectTitle: project.Title,
	})

	return &ports.AcceptResult{
		Token:   session,
		User:    user,
		Project: ports.ProjectRef{ID: project.ID, Title: project.Title},
	}, nil
}

func (s *InvitationService) findProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, domain.ErrProjectGone
	}
	return project, err
}
