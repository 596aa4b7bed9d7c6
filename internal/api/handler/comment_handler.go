package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tasknestle/tasknestle/internal/api/middleware"
	"github.com/tasknestle/tasknestle/internal/core/ports"
)

// CommentHandler handles HTTP requests for task comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type commentEnvelope struct {
	Comment commentResponse `json:"comment"`
}

type commentsEnvelope struct {
	Comments []commentResponse `json:"comments"`
}

// Add posts a comment on a task.
//
// @Summary      Add comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Task ID"
// @Param        body  body      commentRequest  true  "Comment"
// @Success      201   {object}  commentEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /tasks/{id}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Add(c.Request().Context(), p, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Comment added successfully", commentEnvelope{Comment: toComment(*comment)})
}

// List returns a task's comments, oldest first.
//
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  commentsEnvelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /tasks/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	comments, err := h.service.List(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", commentsEnvelope{Comments: toComments(comments)})
}

// Update edits a comment. Only its author may do so.
//
// @Summary      Update comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Comment ID"
// @Param        body  body      commentRequest  true  "New text"
// @Success      200   {object}  commentEnvelope
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.service.Update(c.Request().Context(), p, c.Param("id"), req.Text)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Comment updated successfully", commentEnvelope{Comment: toComment(*comment)})
}

// Delete removes a comment and detaches it from its task.
//
// @Summary      Delete comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Comment ID"
// @Success      200  {object}  envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	p, err := middleware.Principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Comment deleted successfully", nil)
}
