// Package policy holds the authorization rules for projects, tasks and
// comments. Every predicate is pure: callers fetch the resources first and
// translate a false result into domain.ErrForbidden.
//
// The admin role short-circuits every predicate except CanModifyComment,
// where only the author may edit.
package policy

import "github.com/tasknestle/tasknestle/internal/core/domain"

// Action names a policy decision, used for logging and metrics labels.
type Action string

const (
	AccessProject Action = "access_project"
	ModifyProject Action = "modify_project"
	DeleteProject Action = "delete_project"
	CreateTask    Action = "create_task"
	AccessTask    Action = "access_task"
	ModifyTask    Action = "modify_task"
	DeleteTask    Action = "delete_task"
	ModifyComment Action = "modify_comment"
	DeleteComment Action = "delete_comment"
	Invite        Action = "invite"
)

// CanAccessProject: admin, the creator, or a listed member.
func CanAccessProject(p *domain.User, project *domain.Project) bool {
	if p.IsAdmin() {
		return true
	}
	return project.IsCreator(p.ID) || project.HasMember(p.ID)
}

// CanModifyProject is currently identical to CanAccessProject.
func CanModifyProject(p *domain.User, project *domain.Project) bool {
	return CanAccessProject(p, project)
}

// CanDeleteProject: admin or the creator.
func CanDeleteProject(p *domain.User, project *domain.Project) bool {
	if p.IsAdmin() {
		return true
	}
	return project.IsCreator(p.ID)
}

func CanCreateTask(p *domain.User, project *domain.Project) bool {
	return CanAccessProject(p, project)
}

// CanModifyTask: admin, a project member, the task creator, or the assignee.
// The assignee qualifies even when no longer a project member.
func CanModifyTask(p *domain.User, project *domain.Project, task *domain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	return CanAccessProject(p, project) ||
		(p.ID != "" && task.CreatedBy == p.ID) ||
		task.IsAssignedTo(p.ID)
}

// CanAccessTask gates reading a task and its comments.
func CanAccessTask(p *domain.User, project *domain.Project, task *domain.Task) bool {
	return CanModifyTask(p, project, task)
}

// CanDeleteTask is narrower than modify: the assignee alone cannot delete.
func CanDeleteTask(p *domain.User, project *domain.Project, task *domain.Task) bool {
	if p.IsAdmin() {
		return true
	}
	return project.IsCreator(p.ID) || (p.ID != "" && task.CreatedBy == p.ID)
}

// CanModifyComment: the author only. Admin does not override.
func CanModifyComment(p *domain.User, comment *domain.Comment) bool {
	return p != nil && p.ID != "" && comment.CreatedBy == p.ID
}

// CanDeleteComment: the author or an admin.
func CanDeleteComment(p *domain.User, comment *domain.Comment) bool {
	if p.IsAdmin() {
		return true
	}
	return CanModifyComment(p, comment)
}

func CanInvite(p *domain.User, project *domain.Project) bool {
	return CanAccessProject(p, project)
}
