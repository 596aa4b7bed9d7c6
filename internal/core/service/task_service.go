package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/policy"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

type TaskService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, notifier: notifier, log: log}
}

func (s *TaskService) Create(ctx context.Context, p *domain.User, projectID string, in ports.CreateTaskInput) (*ports.TaskView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanCreateTask(p, project) {
		return nil, s.deny(p, projectID, policy.CreateTask)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "title is required")
	}
	status := in.Status
	if status == "" {
		status = domain.TaskTodo
	}
	if !status.Valid() {
		return nil, invalidStatus()
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalidPriority()
	}
	if in.AssignedTo != "" && !project.HasMember(in.AssignedTo) {
		return nil, domain.ErrAssigneeNotMember
	}

	now := time.Now().UTC()
	task, err := s.tasks.Create(ctx, &domain.Task{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		DueDate:     in.DueDate,
		ProjectID:   project.ID,
		CreatedBy:   p.ID,
		Comments:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.log.Error().Err(err).Str("project_id", projectID).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Str("task_id", task.ID).Str("project_id", project.ID).Str("priority", string(priority)).Msg("task created")
	s.notifyAssignee(ctx, p, task, project, "")
	return taskView(ctx, s.users, task, project)
}

func (s *TaskService) List(ctx context.Context, p *domain.User, projectID string, q ports.TaskQuery) ([]ports.TaskView, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessProject(p, project) {
		return nil, s.deny(p, projectID, policy.AccessProject)
	}

	tasks, err := s.tasks.List(ctx, ports.TaskFilter{
		ProjectID:  projectID,
		Status:     q.Status,
		Priority:   q.Priority,
		AssignedTo: q.AssignedTo,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return taskViews(ctx, s.users, s.projects, tasks)
}

func (s *TaskService) Get(ctx context.Context, p *domain.User, taskID string) (*ports.TaskView, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(p, project, task) {
		return nil, s.deny(p, taskID, policy.AccessTask)
	}
	return taskView(ctx, s.users, task, project)
}

// Update applies a partial update. A new assignee must be a project member;
// an explicit null unassigns.
func (s *TaskService) Update(ctx context.Context, p *domain.User, taskID string, in ports.UpdateTaskInput) (*ports.TaskView, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanModifyTask(p, project, task) {
		return nil, s.deny(p, taskID, policy.ModifyTask)
	}

	previousAssignee := task.AssignedTo

	if title := trimmed(in.Title); title != nil {
		if *title == "" {
			return nil, domain.NewValidationError("title", "title cannot be empty")
		}
		task.Title = *title
	}
	if desc := trimmed(in.Description); desc != nil {
		task.Description = *desc
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalidStatus()
		}
		task.Status = *in.Status
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, invalidPriority()
		}
		task.Priority = *in.Priority
	}
	if in.AssignedTo.Set {
		assignee := ""
		if in.AssignedTo.Value != nil {
			assignee = *in.AssignedTo.Value
		}
		if assignee != "" && !project.HasMember(assignee) {
			return nil, domain.ErrAssigneeNotMember
		}
		task.AssignedTo = assignee
	}
	if in.DueDate.Set {
		task.DueDate = in.DueDate.Value
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.notifyAssignee(ctx, p, task, project, previousAssignee)
	return taskView(ctx, s.users, task, project)
}

// Delete removes the task. Its comments are not deleted.
func (s *TaskService) Delete(ctx context.Context, p *domain.User, taskID string) error {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(p, project, task) {
		return s.deny(p, taskID, policy.DeleteTask)
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.log.Info().Str("task_id", taskID).Str("user_id", p.ID).Msg("task deleted")
	return nil
}

func (s *TaskService) MyTasks(ctx context.Context, p *domain.User, q ports.TaskQuery) ([]ports.TaskView, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	filter := ports.TaskFilter{
		Status:    q.Status,
		Priority:  q.Priority,
		ByDueDate: true,
	}
	if !p.IsAdmin() {
		filter.AssignedTo = p.ID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("my tasks: %w", err)
	}
	return taskViews(ctx, s.users, s.projects, tasks)
}

func (s *TaskService) Stats(ctx context.Context, p *domain.User, projectID string) (*domain.TaskStats, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessProject(p, project) {
		return nil, s.deny(p, projectID, policy.AccessProject)
	}
	stats, err := s.tasks.Stats(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return &stats, nil
}

// load fetches a task and its project. A task whose project was deleted is
// returned with a placeholder project so creator, assignee and admin checks
// still apply.
func (s *TaskService) load(ctx context.Context, taskID string) (*domain.Task, *domain.Project, error) {
	return loadTask(ctx, s.tasks, s.projects, taskID)
}

func loadTask(ctx context.Context, tasks ports.TaskRepository, projects ports.ProjectRepository, taskID string) (*domain.Task, *domain.Project, error) {
	task, err := tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := projects.FindByID(ctx, task.ProjectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return task, &domain.Project{ID: task.ProjectID}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

func (s *TaskService) deny(p *domain.User, resourceID string, action policy.Action) error {
	s.log.Warn().Str("user_id", p.ID).Str("resource_id", resourceID).Str("action", string(action)).Msg("access denied")
	return forbid(action)
}

// notifyAssignee tells a newly assigned user about the task unless they
// assigned it to themselves.
func (s *TaskService) notifyAssignee(ctx context.Context, p *domain.User, task *domain.Task, project *domain.Project, previous string) {
	if task.AssignedTo == "" || task.AssignedTo == previous || task.AssignedTo == p.ID {
		return
	}
	assignee, err := s.users.FindByID(ctx, task.AssignedTo)
	if err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("assignee lookup failed")
		return
	}
	notify(ctx, s.notifier, s.log, domain.Notification{
		Kind:         domain.NotifyTaskAssigned,
		To:           assignee.Email,
		Name:         assignee.Name,
		ProjectTitle: project.Title,
		InviterName:  p.Name,
		TaskTitle:    task.Title,
		TaskPriority: task.Priority,
	})
}

func validateQuery(q ports.TaskQuery) error {
	if q.Status != "" && !q.Status.Valid() {
		return invalidStatus()
	}
	if q.Priority != "" && !q.Priority.Valid() {
		return invalidPriority()
	}
	return nil
}

func invalidStatus() error {
	return domain.NewValidationError("status", "status must be one of: todo discovery in-progress review testing completed hold cancelled")
}

func invalidPriority() error {
	return domain.NewValidationError("priority", "priority must be one of: low medium high")
}
