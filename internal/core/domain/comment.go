package domain

import "time"

// MaxCommentLength bounds the text of a single comment.
const MaxCommentLength = 500

// Comment is a note left on a task.
type Comment struct {
	ID        string
	Text      string
	CreatedBy string
	TaskID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
