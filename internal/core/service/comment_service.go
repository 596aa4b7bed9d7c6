package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/policy"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{comments: comments, tasks: tasks, projects: projects, users: users, log: log}
}

// Add stores a comment and appends its id to the task's comment list.
func (s *CommentService) Add(ctx context.Context, p *domain.User, taskID, text string) (*ports.CommentView, error) {
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}
	task, project, err := loadTask(ctx, s.tasks, s.projects, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(p, project, task) {
		return nil, s.deny(p, taskID, policy.AccessTask)
	}

	now := time.Now().UTC()
	comment, err := s.comments.Create(ctx, &domain.Comment{
		Text:      text,
		CreatedBy: p.ID,
		TaskID:    task.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if err := s.tasks.PushComment(ctx, task.ID, comment.ID); err != nil {
		return nil, fmt.Errorf("add comment: link to task: %w", err)
	}

	return s.view(ctx, comment)
}

// List returns the task's comments, oldest first.
func (s *CommentService) List(ctx context.Context, p *domain.User, taskID string) ([]ports.CommentView, error) {
	task, project, err := loadTask(ctx, s.tasks, s.projects, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(p, project, task) {
		return nil, s.deny(p, taskID, policy.AccessTask)
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return commentViews(ctx, s.users, comments)
}

// Update edits the text. Only the author may do so.
func (s *CommentService) Update(ctx context.Context, p *domain.User, commentID, text string) (*ports.CommentView, error) {
	text, err := commentText(text)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyComment(p, comment) {
		return nil, s.deny(p, commentID, policy.ModifyComment)
	}

	comment.Text = text
	comment.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return s.view(ctx, comment)
}

// Delete removes the comment and pulls its id from the owning task.
func (s *CommentService) Delete(ctx context.Context, p *domain.User, commentID string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteComment(p, comment) {
		return s.deny(p, commentID, policy.DeleteComment)
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if err := s.tasks.PullComment(ctx, comment.TaskID, commentID); err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
		return fmt.Errorf("delete comment: unlink from task: %w", err)
	}
	s.log.Info().Str("comment_id", commentID).Str("task_id", comment.TaskID).Str("user_id", p.ID).Msg("comment deleted")
	return nil
}

func (s *CommentService) view(ctx context.Context, c *domain.Comment) (*ports.CommentView, error) {
	views, err := commentViews(ctx, s.users, []*domain.Comment{c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CommentService) deny(p *domain.User, resourceID string, action policy.Action) error {
	s.log.Warn().Str("user_id", p.ID).Str("resource_id", resourceID).Str("action", string(action)).Msg("access denied")
	return forbid(action)
}

func commentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewValidationError("text", "comment text is required")
	}
	if utf8.RuneCountInString(text) > domain.MaxCommentLength {
		return "", domain.NewValidationError("text", fmt.Sprintf("comment cannot exceed %d characters", domain.MaxCommentLength))
	}
	return text, nil
}
