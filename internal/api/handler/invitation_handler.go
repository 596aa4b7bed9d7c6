package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/metrics"
	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/domain"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// InvitationHandler issues, verifies and redeems project invitations.
type InvitationHandler struct {
	service ports.InvitationService
}

func NewInvitationHandler(service ports.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

type inviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type acceptRequest struct {
	Token    string `json:"token" validate:"required"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,password"`
}

type inviteResponse struct {
	Outcome         string             `json:"outcome"`
	Email           string             `json:"email"`
	InvitationToken string             `json:"invitationToken,omitempty"`
	Project         projectRefResponse `json:"project"`
}

type invitationDetailsResponse struct {
	Email   string                 `json:"email"`
	Project invitationProjectBrief `json:"project"`
}

type invitationProjectBrief struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type acceptResponse struct {
	Token   string             `json:"token"`
	User    *domain.User       `json:"user"`
	Project projectRefResponse `json:"project"`
}

// Invite adds an existing user to the project or emails a sign-up invitation.
//
// @Summary      Invite to project
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Project ID"
// @Param        body  body      inviteRequest  true  "Invitee"
// @Success      200   {object}  inviteResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /projects/{id}/invite [post]
func (h *InvitationHandler) Invite(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req inviteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Invite(c.Request().Context(), p, c.Param("id"), req.Email)
	if err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues(string(res.Outcome)).Inc()

	message := "Invitation sent successfully"
	if res.Outcome == domain.InviteMemberAdded {
		message = "User added to project successfully"
	}
	return respond(c, http.StatusOK, message, inviteResponse{
		Outcome:         string(res.Outcome),
		Email:           res.Email,
		InvitationToken: res.Token,
		Project:         toProjectRef(res.Project),
	})
}

// Verify checks an invitation token without redeeming it.
//
// @Summary      Verify invitation
// @Tags         invitations
// @Produce      json
// @Param        token  path      string  true  "Invitation token"
// @Success      200    {object}  invitationDetailsResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /invitations/verify/{token} [get]
func (h *InvitationHandler) Verify(c echo.Context) error {
	details, err := h.service.Verify(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Invitation token is valid", invitationDetailsResponse{
		Email: details.Email,
		Project: invitationProjectBrief{
			ID:          details.ProjectID,
			Title:       details.ProjectTitle,
			Description: details.ProjectDescription,
		},
	})
}

// Accept redeems an invitation, creating the account and a session.
//
// @Summary      Accept invitation
// @Tags         invitations
// @Accept       json
// @Produce      json
// @Param        body  body      acceptRequest  true  "Token and account details"
// @Success      201   {object}  acceptResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /invitations/accept [post]
func (h *InvitationHandler) Accept(c echo.Context) error {
	var req acceptRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.service.Accept(c.Request().Context(), req.Token, req.Name, req.Password)
	if err != nil {
		return err
	}
	metrics.InvitationsTotal.WithLabelValues("accepted").Inc()

	return respond(c, http.StatusCreated, "Account created and invitation accepted successfully", acceptResponse{
		Token:   res.Token,
		User:    res.User,
		Project: toProjectRef(res.Project),
	})
}
