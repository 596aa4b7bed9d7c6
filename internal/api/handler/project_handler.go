package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/metrics"
	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// ProjectHandler handles HTTP requests for projects and their members.
type ProjectHandler struct {
	service ports.ProjectService
}

func NewProjectHandler(service ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

type createProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Members     []string `json:"members" validate:"omitempty,dive,mongodb"`
}

type updateProjectRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active archived completed"`
	Members     []string `json:"members" validate:"omitempty,dive,mongodb"`
}

type membersRequest struct {
	MemberIDs []string `json:"memberIds" validate:"required,min=1,dive,mongodb"`
}

type projectEnvelope struct {
	Project projectResponse `json:"project"`
}

type projectsEnvelope struct {
	Projects []projectResponse `json:"projects"`
}

type membersEnvelope struct {
	Members []userRefResponse `json:"members"`
}

// Create registers a project owned by the caller.
//
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project"
// @Success      201   {object}  projectEnvelope
// @Failure      400   {object}  ErrorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req createProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.Create(c.Request().Context(), p, ports.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Members:     req.Members,
	})
	if err != nil {
		return err
	}
	metrics.ProjectsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, "Project created successfully", projectEnvelope{Project: toProject(*project)})
}

// List returns the projects visible to the caller with the given status.
//
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active (default), archived or completed"
// @Success      200     {object}  projectsEnvelope
// @Failure      400     {object}  ErrorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	projects, err := h.service.List(c.Request().Context(), p, domain.ProjectStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", projectsEnvelope{Projects: toProjects(projects)})
}

// Get returns one project.
//
// @Summary      Get project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  projectEnvelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	project, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", projectEnvelope{Project: toProject(*project)})
}

// Update changes project fields. Only the creator or an admin may do so.
//
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Project ID"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req updateProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := ports.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Members:     req.Members,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.service.Update(c.Request().Context(), p, c.Param("id"), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Project updated successfully", projectEnvelope{Project: toProject(*project)})
}

// Delete removes a project. Its tasks are left in place.
//
// @Summary      Delete project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Project deleted successfully", nil)
}

// AddMembers adds users to a project.
//
// @Summary      Add project members
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      membersRequest  true  "Member IDs"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /projects/{id}/members [post]
func (h *ProjectHandler) AddMembers(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req membersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.AddMembers(c.Request().Context(), p, c.Param("id"), req.MemberIDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Members added successfully", projectEnvelope{Project: toProject(*project)})
}

// RemoveMembers removes users from a project. The creator cannot be removed.
//
// @Summary      Remove project members
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project ID"
// @Param        body  body      membersRequest  true  "Member IDs"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /projects/{id}/members [delete]
func (h *ProjectHandler) RemoveMembers(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req membersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.RemoveMembers(c.Request().Context(), p, c.Param("id"), req.MemberIDs)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Members removed successfully", projectEnvelope{Project: toProject(*project)})
}

// Members lists a project's members.
//
// @Summary      List project members
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  membersEnvelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /projects/{id}/members [get]
func (h *ProjectHandler) Members(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	members, err := h.service.Members(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", membersEnvelope{Members: toUserRefs(members)})
}
