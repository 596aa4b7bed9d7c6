package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// UserHandler serves the admin panel: account management and the dashboard.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"omitempty,password"`
	Role      string `json:"role" validate:"omitempty,oneof=admin member"`
	ProjectID string `json:"projectId" validate:"omitempty,mongodb"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

type addToProjectRequest struct {
	UserID    string `json:"userId" validate:"required,mongodb"`
	ProjectID string `json:"projectId" validate:"required,mongodb"`
}

type credentialsResponse struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createdUserResponse struct {
	User        *domain.User         `json:"user"`
	Credentials *credentialsResponse `json:"credentials,omitempty"`
	Project     *projectRefResponse  `json:"project,omitempty"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type dashboardResponse struct {
	Stats          dashboardCounts   `json:"stats"`
	RecentUsers    []*domain.User    `json:"recentUsers"`
	RecentProjects []projectResponse `json:"recentProjects"`
}

type dashboardCounts struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalProjects  int64 `json:"totalProjects"`
	ActiveProjects int64 `json:"activeProjects"`
	TotalTasks     int64 `json:"totalTasks"`
}

// CreateUser opens an account. A missing password is generated and returned
// in the response.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  createdUserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /auth/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	return h.createUser(c, false)
}

// CreateUserWithCredentials opens an account with a generated password.
//
// @Summary      Create user with generated credentials
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account; password is ignored"
// @Success      201   {object}  createdUserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /auth/users/with-credentials [post]
func (h *UserHandler) CreateUserWithCredentials(c echo.Context) error {
	return h.createUser(c, true)
}

func (h *UserHandler) createUser(c echo.Context, generate bool) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if generate {
		req.Password = ""
	}

	created, err := h.service.CreateUser(c.Request().Context(), p, ports.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		ProjectID: req.ProjectID,
	})
	if err != nil {
		return err
	}

	resp := createdUserResponse{User: created.User}
	if created.GeneratedPassword != "" {
		resp.Credentials = &credentialsResponse{Email: created.User.Email, Password: created.GeneratedPassword}
	}
	if created.Project != nil {
		ref := toProjectRef(*created.Project)
		resp.Project = &ref
	}
	return respond(c, http.StatusCreated, "User created and credentials sent successfully", resp)
}

// ListUsers returns every account, newest first.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /auth/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	users, err := h.service.ListUsers(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", usersResponse{Users: users})
}

// DeleteUser removes an account. Admins cannot delete themselves.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  envelope
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/users/{userId} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), p, c.Param("userId")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// UpdateRole changes an account's role.
//
// @Summary      Update user role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      updateRoleRequest  true  "New role"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /auth/users/{userId}/role [put]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateRole(c.Request().Context(), p, c.Param("userId"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", userResponse{User: user})
}

// AddToProject adds an existing user to a project.
//
// @Summary      Add user to project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addToProjectRequest  true  "User and project"
// @Success      200   {object}  projectEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /auth/users/add-to-project [post]
func (h *UserHandler) AddToProject(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req addToProjectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	project, err := h.service.AddUserToProject(c.Request().Context(), p, req.UserID, req.ProjectID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User added to project successfully", projectEnvelope{Project: toProject(*project)})
}

// Dashboard returns workspace totals and the most recent accounts and projects.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /auth/admin/dashboard [get]
func (h *UserHandler) Dashboard(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Dashboard(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", dashboardResponse{
		Stats: dashboardCounts{
			TotalUsers:     stats.TotalUsers,
			TotalProjects:  stats.TotalProjects,
			ActiveProjects: stats.ActiveProjects,
			TotalTasks:     stats.TotalTasks,
		},
		RecentUsers:    stats.RecentUsers,
		RecentProjects: toProjects(stats.RecentProjects),
	})
}
