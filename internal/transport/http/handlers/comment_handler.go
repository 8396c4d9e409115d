package handlers

import (
	"errors"
	"net/http"

	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/middleware"
	"github.com/vedran77/quill/internal/transport/http/response"
	"github.com/vedran77/quill/pkg/validator"
)

type CommentHandler struct {
	errorReporter
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService, exposeErrors bool) *CommentHandler {
	return &CommentHandler{
		errorReporter:  errorReporter{expose: exposeErrors},
		commentService: commentService,
	}
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}

	var input service.AddCommentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.ValidateComment(input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	comment, err := h.commentService.Add(r.Context(), userID, postID, input)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.Fail(w, http.StatusNotFound, "Blog not found")
		} else {
			h.internal(w, "add comment", "Error adding comment", err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, "Comment added successfully!", comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}
	commentID, ok := pathUUID(w, r, "commentId", "comment")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, postID, commentID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.Fail(w, http.StatusNotFound, "Blog not found")
		case errors.Is(err, service.ErrCommentNotFound):
			response.Fail(w, http.StatusNotFound, "Comment not found")
		case errors.Is(err, service.ErrNotCommentOwner):
			response.Fail(w, http.StatusForbidden, "You can only delete your own comments or comments on your blogs")
		default:
			h.internal(w, "delete comment", "Error deleting comment", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Comment deleted successfully!", nil)
}
