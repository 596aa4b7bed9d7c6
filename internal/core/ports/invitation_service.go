package ports

import (
	"context"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// InviteResult reports what Invite did. Token is set only for InviteSent.
type InviteResult struct {
	Outcome domain.InviteOutcome
	Email   string
	Token   string
	Project ProjectRef
}

// InvitationDetails is what an invitee sees before accepting.
type InvitationDetails struct {
	Email              string
	ProjectID          string
	ProjectTitle       string
	ProjectDescription string
}

// AcceptResult carries the session of a freshly redeemed invitation.
type AcceptResult struct {
	Token   string
	User    *domain.User
	Project ProjectRef
}

// InvitationService issues and redeems project invitations.
type InvitationService interface {
	Invite(ctx context.Context, principal *domain.User, projectID, email string) (*InviteResult, error)
	Verify(ctx context.Context, token string) (*InvitationDetails, error)
	Accept(ctx context.Context, token, name, password string) (*AcceptResult, error)
}
