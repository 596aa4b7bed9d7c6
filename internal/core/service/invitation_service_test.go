package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

type inviteFixture struct {
	svc         *InvitationService
	users       *stubUserRepo
	projects    *stubProjectRepo
	tokens      *TokenManager
	redemptions *stubRedemptions
	notifier    *stubNotifier
}

func newInviteFixture() inviteFixture {
	users := newStubUserRepo()
	seedPeople(users)
	projects := newStubProjectRepo()
	projects.seed("p1", "creator", "member")
	tokens := NewTokenManager("secret", time.Hour, 0)
	redemptions := newStubRedemptions()
	notifier := &stubNotifier{}
	return inviteFixture{
		svc:         NewInvitationService(projects, users, tokens, redemptions, notifier, zerolog.Nop()),
		users:       users,
		projects:    projects,
		tokens:      tokens,
		redemptions: redemptions,
		notifier:    notifier,
	}
}

func TestInvitationService_RoundTrip(t *testing.T) {
	f := newInviteFixture()
	ctx := context.Background()

	res, err := f.svc.Invite(ctx, memberUser, "p1", "New.Person@Example.com")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if res.Outcome != domain.InviteSent || res.Token == "" || res.Email != "new.person@example.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if kinds := f.notifier.kinds(); len(kinds) != 1 || kinds[0] != domain.NotifyInvitation {
		t.Fatalf("expected invitation email, got %v", kinds)
	}

	details, err := f.svc.Verify(ctx, res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if details.Email != "new.person@example.com" || details.ProjectID != "p1" {
		t.Fatalf("unexpected details: %+v", details)
	}

	accepted, err := f.svc.Accept(ctx, res.Token, "New Person", "Passw0rd")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.User.Email != "new.person@example.com" || !accepted.User.EmailVerified || accepted.User.Role != domain.RoleMember {
		t.Fatalf("unexpected user: %+v", accepted.User)
	}
	if !f.projects.projects["p1"].HasMember(accepted.User.ID) {
		t.Fatalf("new user should be a member of p1")
	}
	if subject, err := f.tokens.ParseSession(accepted.Token); err != nil || subject != accepted.User.ID {
		t.Fatalf("expected a session for the new user, got %q %v", subject, err)
	}

	if _, err := f.svc.Accept(ctx, res.Token, "Someone Else", "Passw0rd"); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered on second redemption, got %v", err)
	}
}

func TestInvitationService_SecondRedemptionWithoutRedis(t *testing.T) {
	f := newInviteFixture()
	f.redemptions.checkErr = errors.New("redis down")
	ctx := context.Background()

	res, err := f.svc.Invite(ctx, creatorUser, "p1", "x@example.com")
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := f.svc.Accept(ctx, res.Token, "X", "Passw0rd"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.svc.Accept(ctx, res.Token, "X", "Passw0rd"); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("registered email must still block redemption, got %v", err)
	}
}

func TestInvitationService_Invite_ExistingUser(t *testing.T) {
	f := newInviteFixture()

	res, err := f.svc.Invite(context.Background(), creatorUser, "p1", outsider.Email)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if res.Outcome != domain.InviteMemberAdded || res.Token != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !f.projects.projects["p1"].HasMember(outsider.ID) {
		t.Fatalf("existing user should be added directly")
	}

	if _, err := f.svc.Invite(context.Background(), creatorUser, "p1", memberUser.Email); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestInvitationService_Invite_Forbidden(t *testing.T) {
	f := newInviteFixture()

	if _, err := f.svc.Invite(context.Background(), outsider, "p1", "x@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatalf("no email expected")
	}
}

func TestInvitationService_Invite_EmailFailureStillSucceeds(t *testing.T) {
	f := newInviteFixture()
	f.notifier.err = errors.New("smtp down")

	res, err := f.svc.Invite(context.Background(), creatorUser, "p1", "x@example.com")
	if err != nil {
		t.Fatalf("invite must succeed despite email failure: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("token should still be returned")
	}
}

func TestInvitationService_Accept_Rejections(t *testing.T) {
	f := newInviteFixture()
	ctx := context.Background()

	if _, err := f.svc.Accept(ctx, "not-a-token", "X", "Passw0rd"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	session, _ := f.tokens.IssueSession(memberUser)
	if _, err := f.svc.Accept(ctx, session, "X", "Passw0rd"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("session token must not redeem, got %v", err)
	}

	registered, _, _ := f.tokens.IssueInvitation(memberUser.Email, "p1")
	if _, err := f.svc.Accept(ctx, registered, "X", "Passw0rd"); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	orphan, _, _ := f.tokens.IssueInvitation("new@example.com", "deleted-project")
	if _, err := f.svc.Accept(ctx, orphan, "X", "Passw0rd"); !errors.Is(err, domain.ErrProjectGone) {
		t.Fatalf("expected ErrProjectGone, got %v", err)
	}
	if _, err := f.svc.Verify(ctx, orphan); !errors.Is(err, domain.ErrProjectGone) {
		t.Fatalf("expected ErrProjectGone from verify, got %v", err)
	}

	weak, _, _ := f.tokens.IssueInvitation("weak@example.com", "p1")
	if _, err := f.svc.Accept(ctx, weak, "X", "password"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.users.FindByEmail(ctx, "weak@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("rejected redemption must not create a user")
	}
}
