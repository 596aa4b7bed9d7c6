package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

const (
	defaultFrontendURL   = "http://localhost:3000"
	invitationExpiryDays = 7
)

// Composer renders notifications into messages.
type Composer struct {
	from        string
	frontendURL string
	templates   map[string]*template.Template
}

// NewComposer returns a Composer building links against frontendURL.
func NewComposer(from, frontendURL string) *Composer {
	frontendURL = strings.TrimRight(frontendURL, "/")
	if frontendURL == "" {
		frontendURL = defaultFrontendURL
	}
	return &Composer{
		from:        from,
		frontendURL: frontendURL,
		templates:   parseTemplates(),
	}
}

type button struct {
	URL   string
	Label string
}

type templateData struct {
	domain.Notification
	Button     button
	ExpiryDays int
}

// Compose renders n. The notification must name a recipient and a known kind.
func (c *Composer) Compose(n domain.Notification) (Message, error) {
	if strings.TrimSpace(n.To) == "" {
		return Message{}, ErrNoRecipient
	}
	t, ok := c.templates[string(n.Kind)]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}

	data := templateData{Notification: n, Button: c.button(n), ExpiryDays: invitationExpiryDays}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", n.Kind, err)
	}

	return Message{
		From:    c.from,
		To:      n.To,
		Subject: subject(n),
		HTML:    buf.String(),
		Kind:    string(n.Kind),
	}, nil
}

func (c *Composer) button(n domain.Notification) button {
	switch n.Kind {
	case domain.NotifyInvitation:
		return button{URL: c.frontendURL + "/invite?token=" + url.QueryEscape(n.Token), Label: "Accept Invitation"}
	case domain.NotifyTaskAssigned:
		return button{URL: c.frontendURL + "/dashboard", Label: "View Task"}
	case domain.NotifyProjectAdded, domain.NotifyWelcome:
		return button{URL: c.frontendURL + "/dashboard", Label: "Open Dashboard"}
	default:
		return button{URL: c.frontendURL + "/login", Label: "Login to Dashboard"}
	}
}

func subject(n domain.Notification) string {
	switch n.Kind {
	case domain.NotifyInvitation:
		return fmt.Sprintf("Invitation to join project: %s", n.ProjectTitle)
	case domain.NotifyCredentials:
		return "Your TaskNestle Login Credentials"
	case domain.NotifyWelcome:
		return "Welcome to TaskNestle"
	case domain.NotifyTaskAssigned:
		return fmt.Sprintf("New task assigned: %s", n.TaskTitle)
	case domain.NotifyProjectAdded:
		return fmt.Sprintf("You've been added to project: %s", n.ProjectTitle)
	}
	return "TaskNestle notification"
}
