package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// userDirectory resolves user ids to display refs with one repository call.
type userDirectory map[string]ports.UserRef

func loadUsers(ctx context.Context, users ports.UserRepository, ids []string) (userDirectory, error) {
	dir := make(userDirectory, len(ids))
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return dir, nil
	}
	found, err := users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	for _, u := range found {
		dir[u.ID] = ports.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return dir, nil
}

func (d userDirectory) ref(id string) ports.UserRef {
	if r, ok := d[id]; ok {
		return r
	}
	return ports.UserRef{ID: id}
}

func projectUserIDs(projects ...*domain.Project) []string {
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.CreatedBy)
		ids = append(ids, p.Members...)
	}
	return ids
}

func (d userDirectory) project(p *domain.Project) ports.ProjectView {
	members := make([]ports.UserRef, 0, len(p.Members))
	for _, id := range p.Members {
		members = append(members, d.ref(id))
	}
	return ports.ProjectView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Members:     members,
		CreatedBy:   d.ref(p.CreatedBy),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func projectView(ctx context.Context, users ports.UserRepository, p *domain.Project) (*ports.ProjectView, error) {
	dir, err := loadUsers(ctx, users, projectUserIDs(p))
	if err != nil {
		return nil, err
	}
	v := dir.project(p)
	return &v, nil
}

func projectViews(ctx context.Context, users ports.UserRepository, projects []*domain.Project) ([]ports.ProjectView, error) {
	dir, err := loadUsers(ctx, users, projectUserIDs(projects...))
	if err != nil {
		return nil, err
	}
	out := make([]ports.ProjectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, dir.project(p))
	}
	return out, nil
}

func (d userDirectory) task(t *domain.Task, project ports.ProjectRef) ports.TaskView {
	v := ports.TaskView{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		DueDate:      t.DueDate,
		Project:      project,
		CreatedBy:    d.ref(t.CreatedBy),
		CommentIDs:   append([]string(nil), t.Comments...),
		CommentCount: len(t.Comments),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.AssignedTo != "" {
		ref := d.ref(t.AssignedTo)
		v.AssignedTo = &ref
	}
	return v
}

// taskViews resolves users and project titles for a batch of tasks. Tasks
// whose project is gone keep the project id with an empty title.
func taskViews(ctx context.Context, users ports.UserRepository, projects ports.ProjectRepository, tasks []*domain.Task) ([]ports.TaskView, error) {
	var ids []string
	titles := make(map[string]string)
	for _, t := range tasks {
		ids = append(ids, t.CreatedBy, t.AssignedTo)
		if _, ok := titles[t.ProjectID]; ok {
			continue
		}
		p, err := projects.FindByID(ctx, t.ProjectID)
		switch {
		case err == nil:
			titles[t.ProjectID] = p.Title
		case errors.Is(err, domain.ErrProjectNotFound):
			titles[t.ProjectID] = ""
		default:
			return nil, err
		}
	}
	dir, err := loadUsers(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dir.task(t, ports.ProjectRef{ID: t.ProjectID, Title: titles[t.ProjectID]}))
	}
	return out, nil
}

func taskView(ctx context.Context, users ports.UserRepository, t *domain.Task, project *domain.Project) (*ports.TaskView, error) {
	dir, err := loadUsers(ctx, users, []string{t.CreatedBy, t.AssignedTo})
	if err != nil {
		return nil, err
	}
	v := dir.task(t, ports.ProjectRef{ID: project.ID, Title: project.Title})
	return &v, nil
}

func commentViews(ctx context.Context, users ports.UserRepository, comments []*domain.Comment) ([]ports.CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.CreatedBy)
	}
	dir, err := loadUsers(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, ports.CommentView{
			ID:        c.ID,
			Text:      c.Text,
			TaskID:    c.TaskID,
			CreatedBy: dir.ref(c.CreatedBy),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return out, nil
}
