package domain

import "time"

// InvitationClaims is the payload of a signed invitation token. Tokens are
// never persisted; TokenID lets a redemption be recorded once.
type InvitationClaims struct {
	TokenID   string
	Email     string
	ProjectID string
	ExpiresAt time.Time
}

// InviteOutcome tells the inviter what an invitation did.
type InviteOutcome string

const (
	// InviteMemberAdded means the email already had an account and was added directly.
	InviteMemberAdded InviteOutcome = "member_added"
	// InviteSent means a token was minted and mailed.
	InviteSent InviteOutcome = "invitation_sent"
)
