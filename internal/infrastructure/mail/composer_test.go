package mail

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

func TestCompose_InvitationLink(t *testing.T) {
	c := NewComposer("noreply@tasknestle.dev", "https://app.example.com/")

	msg, err := c.Compose(domain.Notification{
		Kind:         domain.NotifyInvitation,
		To:           "new@example.com",
		ProjectTitle: "Apollo",
		InviterName:  "Ada",
		Token:        "abc.def",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", msg.To)
	assert.Equal(t, "noreply@tasknestle.dev", msg.From)
	assert.Equal(t, "Invitation to join project: Apollo", msg.Subject)
	assert.Contains(t, msg.HTML, "https://app.example.com/invite?token=abc.def")
	assert.Contains(t, msg.HTML, "expire in 7 days")
}

func TestCompose_CredentialsOptionalProject(t *testing.T) {
	c := NewComposer("from@x", "")

	msg, err := c.Compose(domain.Notification{
		Kind:     domain.NotifyCredentials,
		To:       "bob@example.com",
		Name:     "Bob",
		Password: "Secret123abc",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "Secret123abc")
	assert.Contains(t, msg.HTML, defaultFrontendURL+"/login")
	assert.NotContains(t, msg.HTML, "added to the project")

	msg, err = c.Compose(domain.Notification{
		Kind:         domain.NotifyCredentials,
		To:           "bob@example.com",
		Name:         "Bob",
		ProjectTitle: "Apollo",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "added to the project")
}

func TestCompose_EscapesUserContent(t *testing.T) {
	c := NewComposer("from@x", "")

	msg, err := c.Compose(domain.Notification{
		Kind:         domain.NotifyTaskAssigned,
		To:           "a@b.c",
		TaskTitle:    "<script>alert(1)</script>",
		ProjectTitle: "P",
	})
	require.NoError(t, err)
	assert.False(t, strings.Contains(msg.HTML, "<script>"))
}

func TestCompose_Rejects(t *testing.T) {
	c := NewComposer("from@x", "")

	_, err := c.Compose(domain.Notification{Kind: domain.NotifyWelcome})
	assert.True(t, errors.Is(err, ErrNoRecipient))

	_, err = c.Compose(domain.Notification{Kind: "bogus", To: "a@b.c"})
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestCompose_EveryKindRenders(t *testing.T) {
	c := NewComposer("from@x", "")
	kinds := []domain.NotificationKind{
		domain.NotifyInvitation, domain.NotifyCredentials, domain.NotifyWelcome,
		domain.NotifyTaskAssigned, domain.NotifyProjectAdded,
	}
	for _, k := range kinds {
		msg, err := c.Compose(domain.Notification{Kind: k, To: "a@b.c", ProjectTitle: "P"})
		require.NoError(t, err, k)
		assert.NotEmpty(t, msg.Subject, k)
		assert.Equal(t, string(k), msg.Kind)
	}
}
