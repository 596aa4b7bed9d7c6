package domain

// NotificationKind selects the message template.
type NotificationKind string

const (
	NotifyInvitation   NotificationKind = "invitation"
	NotifyCredentials  NotificationKind = "credentials"
	NotifyWelcome      NotificationKind = "welcome"
	NotifyTaskAssigned NotificationKind = "task_assigned"
	NotifyProjectAdded NotificationKind = "project_added"
)

// Notification is a best-effort message to a single recipient. Only the
// fields relevant to Kind are populated.
type Notification struct {
	Kind         NotificationKind
	To           string
	Name         string
	ProjectTitle string
	InviterName  string
	Token        string
	Password     string
	TaskTitle    string
	TaskPriority TaskPriority
}
