package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/metrics"
	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=100"`
	Description string     `json:"description" validate:"max=1000"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo discovery in-progress review testing completed hold cancelled"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  string     `json:"assignedTo" validate:"omitempty,mongodb"`
	DueDate     *time.Time `json:"dueDate"`
}

// updateTaskRequest distinguishes an absent assignedTo or dueDate (unchanged)
// from an explicit null (cleared).
type updateTaskRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string             `json:"description" validate:"omitempty,max=1000"`
	Status      *string             `json:"status" validate:"omitempty,oneof=todo discovery in-progress review testing completed hold cancelled"`
	Priority    *string             `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  nullable[string]    `json:"assignedTo" swaggertype:"string"`
	DueDate     nullable[time.Time] `json:"dueDate" swaggertype:"string"`
}

type taskEnvelope struct {
	Task taskResponse `json:"task"`
}

type tasksEnvelope struct {
	Tasks []taskResponse `json:"tasks"`
}

type statsEnvelope struct {
	Stats statsResponse `json:"stats"`
}

func taskQuery(c echo.Context) ports.TaskQuery {
	return ports.TaskQuery{
		Status:     domain.TaskStatus(c.QueryParam("status")),
		Priority:   domain.TaskPriority(c.QueryParam("priority")),
		AssignedTo: c.QueryParam("assignedTo"),
	}
}

// Create adds a task to a project.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Project ID"
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /projects/{id}/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), p, c.Param("id"), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return respond(c, http.StatusCreated, "Task created successfully", taskEnvelope{Task: toTask(*task)})
}

// List returns a project's tasks, newest first.
//
// @Summary      List project tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true   "Project ID"
// @Param        status      query     string  false  "Status filter"
// @Param        priority    query     string  false  "Priority filter"
// @Param        assignedTo  query     string  false  "Assignee filter"
// @Success      200         {object}  tasksEnvelope
// @Failure      400         {object}  ErrorResponse
// @Failure      403         {object}  ErrorResponse
// @Router       /projects/{id}/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.List(c.Request().Context(), p, c.Param("id"), taskQuery(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", tasksEnvelope{Tasks: toTasks(tasks)})
}

// Stats counts a project's tasks by status and priority.
//
// @Summary      Project task statistics
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  statsEnvelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id}/tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", statsEnvelope{Stats: toStats(stats)})
}

// MyTasks lists the caller's assigned tasks ordered by due date. Admins see every task.
//
// @Summary      My tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Status filter"
// @Param        priority  query     string  false  "Priority filter"
// @Success      200       {object}  tasksEnvelope
// @Failure      400       {object}  ErrorResponse
// @Router       /tasks/my-tasks [get]
func (h *TaskHandler) MyTasks(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	q := taskQuery(c)
	q.AssignedTo = ""
	tasks, err := h.service.MyTasks(c.Request().Context(), p, q)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", tasksEnvelope{Tasks: toTasks(tasks)})
}

// Get returns one task.
//
// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskEnvelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", taskEnvelope{Task: toTask(*task)})
}

// Update changes task fields. Send null to clear assignedTo or dueDate.
//
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo.optional(),
		DueDate:     req.DueDate.optional(),
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.service.Update(c.Request().Context(), p, c.Param("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task updated successfully", taskEnvelope{Task: toTask(*task)})
}

// Delete removes a task. Its comments are left in place.
//
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}
