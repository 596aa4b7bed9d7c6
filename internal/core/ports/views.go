package ports

import (
	"time"

	"github.com/tasknestle/tasknestle/internal/core/domain"
)

// UserRef is the display form of a referenced user. Name and Email are empty
// when the user no longer exists.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

// ProjectRef identifies a project in responses that do not need the full view.
type ProjectRef struct {
	ID    string
	Title string
}

// ProjectView is a project with its members and creator resolved.
type ProjectView struct {
	ID          string
	Title       string
	Description string
	Status      domain.ProjectStatus
	Members     []UserRef
	CreatedBy   UserRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskView is a task with assignee, creator and project resolved.
type TaskView struct {
	ID           string
	Title        string
	Description  string
	Status       domain.TaskStatus
	Priority     domain.TaskPriority
	AssignedTo   *UserRef
	DueDate      *time.Time
	Project      ProjectRef
	CreatedBy    UserRef
	CommentIDs   []string
	CommentCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        string
	Text      string
	TaskID    string
	CreatedBy UserRef
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Optional distinguishes "leave unchanged" (Set == false) from an explicit
// null (Set == true, Value == nil) in partial updates.
type Optional[T any] struct {
	Set   bool
	Value *T
}
