package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// envelope wraps every successful response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

type userRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type projectRefResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type projectResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Members     []userRefResponse `json:"members"`
	CreatedBy   userRefResponse   `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type taskResponse struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Status       string             `json:"status"`
	Priority     string             `json:"priority"`
	AssignedTo   *userRefResponse   `json:"assignedTo"`
	DueDate      *time.Time         `json:"dueDate"`
	Project      projectRefResponse `json:"project"`
	CreatedBy    userRefResponse    `json:"createdBy"`
	Comments     []string           `json:"comments"`
	CommentCount int                `json:"commentCount"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type commentResponse struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Task      string          `json:"task"`
	CreatedBy userRefResponse `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type statsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
}

func toUserRef(u ports.UserRef) userRefResponse {
	return userRefResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUserRefs(refs []ports.UserRef) []userRefResponse {
	out := make([]userRefResponse, 0, len(refs))
	for _, r := range refs {
		out = append(out, toUserRef(r))
	}
	return out
}

func toProjectRef(p ports.ProjectRef) projectRefResponse {
	return projectRefResponse{ID: p.ID, Title: p.Title}
}

func toProject(p ports.ProjectView) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		Members:     toUserRefs(p.Members),
		CreatedBy:   toUserRef(p.CreatedBy),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjects(views []ports.ProjectView) []projectResponse {
	out := make([]projectResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toProject(v))
	}
	return out
}

func toTask(t ports.TaskView) taskResponse {
	resp := taskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		DueDate:      t.DueDate,
		Project:      toProjectRef(t.Project),
		CreatedBy:    toUserRef(t.CreatedBy),
		Comments:     t.CommentIDs,
		CommentCount: t.CommentCount,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if resp.Comments == nil {
		resp.Comments = []string{}
	}
	if t.AssignedTo != nil {
		ref := toUserRef(*t.AssignedTo)
		resp.AssignedTo = &ref
	}
	return resp
}

func toTasks(views []ports.TaskView) []taskResponse {
	out := make([]taskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toTask(v))
	}
	return out
}

func toComment(c ports.CommentView) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Text:      c.Text,
		Task:      c.TaskID,
		CreatedBy: toUserRef(c.CreatedBy),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toComments(views []ports.CommentView) []commentResponse {
	out := make([]commentResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toComment(v))
	}
	return out
}

func toStats(s *domain.TaskStats) statsResponse {
	resp := statsResponse{
		Total:      s.Total,
		ByStatus:   make(map[string]int64, len(s.ByStatus)),
		ByPriority: make(map[string]int64, len(s.ByPriority)),
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	return resp
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}
