package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/vedran77/quill/internal/domain"
	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/middleware"
	"github.com/vedran77/quill/internal/transport/http/response"
	"github.com/vedran77/quill/pkg/validator"
)

type PostHandler struct {
	errorReporter
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService, exposeErrors bool) *PostHandler {
	return &PostHandler{
		errorReporter: errorReporter{expose: exposeErrors},
		postService:   postService,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreatePostInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.ValidatePostCreate(input.Title, input.Description, input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, input)
	if err != nil {
		h.internal(w, "create post", "Error creating blog", err)
		return
	}

	response.JSON(w, http.StatusCreated, "Blog created successfully!", post)
}

// List serves GET /blogs with optional published, author, tag and search filters.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter domain.PostFilter
	switch q.Get("published") {
	case "true":
		published := true
		filter.Published = &published
	case "false":
		published := false
		filter.Published = &published
	}
	if author := q.Get("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			response.Fail(w, http.StatusBadRequest, "Invalid author ID")
			return
		}
		filter.AuthorID = &authorID
	}
	filter.Tag = q.Get("tag")
	filter.Search = q.Get("search")

	page, err := h.postService.List(r.Context(), filter, pageRequest(r))
	if err != nil {
		h.internal(w, "list posts", "Error fetching blogs", err)
		return
	}

	response.JSON(w, http.StatusOK, "Blogs fetched successfully!", page)
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	authorID, ok := pathUUID(w, r, "userId", "user")
	if !ok {
		return
	}

	page, err := h.postService.ListByAuthor(r.Context(), authorID, pageRequest(r))
	if err != nil {
		h.internal(w, "list user posts", "Error fetching user blogs", err)
		return
	}

	response.JSON(w, http.StatusOK, "User blogs fetched successfully!", page)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.Fail(w, http.StatusNotFound, "Blog not found")
		} else {
			h.internal(w, "get post", "Error fetching blog", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Blog fetched successfully!", post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}

	var input service.UpdatePostInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.ValidatePostUpdate(input.Title, input.Description, input.Content); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.postService.Update(r.Context(), userID, postID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.Fail(w, http.StatusNotFound, "Blog not found")
		case errors.Is(err, service.ErrNotPostOwner):
			response.Fail(w, http.StatusForbidden, "You can only update your own blogs")
		default:
			h.internal(w, "update post", "Error updating blog", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Blog updated successfully!", post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathUUID(w, r, "id", "blog")
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.Fail(w, http.StatusNotFound, "Blog not found")
		case errors.Is(err, service.ErrNotPostOwner):
			response.Fail(w, http.StatusForbidden, "You can only delete your own blogs")
		default:
			h.internal(w, "delete post", "Error deleting blog", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Blog deleted successfully!", nil)
}

func pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	return domain.NewPageRequest(
		parsePositiveInt(q.Get("page"), domain.DefaultPage),
		parsePositiveInt(q.Get("limit"), domain.DefaultLimit),
	)
}
