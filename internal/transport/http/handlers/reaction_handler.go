package handlers

import (
	"errors"
	"net/http"

	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/middleware"
	"github.com/vedran77/quill/internal/transport/http/response"
)

type ReactionHandler struct {
	errorReporter
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService, exposeErrors bool) *ReactionHandler {
	return &ReactionHandler{
		errorReporter:   errorReporter{expose: exposeErrors},
		reactionService: reactionService,
	}
}

func (h *ReactionHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.ReactionLike, "Blog liked successfully!", "Blog unliked successfully!")
}

func (h *ReactionHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, domain.ReactionDislike, "Blog disliked successfully!", "Blog undisliked successfully!")
}

func (h *ReactionHandler) toggle(w http.ResponseWriter, r *http.Request, kind domain.ReactionKind, setMsg, clearMsg string) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}

	result, err := h.reactionService.Toggle(r.Context(), userID, postID, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.Fail(w, http.StatusNotFound, "Blog not found")
		case errors.Is(err, service.ErrInvalidReaction):
			response.Fail(w, http.StatusBadRequest, "Unknown reaction")
		default:
			h.internal(w, "toggle "+string(kind), "Error reacting to blog", err)
		}
		return
	}

	msg := clearMsg
	if result.Active {
		msg = setMsg
	}
	response.JSON(w, http.StatusOK, msg, result.Counts)
}
