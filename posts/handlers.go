package posts

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/auth"
	"github.com/user/devconnector-go/validation"
)

// Handlers provides the HTTP handlers for posts, likes and comments.
// Every route in this group sits behind the auth gate.
type Handlers struct {
	service *PostService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *PostService) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the post routes on the given (already
// authenticated) router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{post_id}", h.handleGet)
	r.Delete("/{post_id}", h.handleDelete)
	r.Put("/like/{post_id}", h.handleLike)
	r.Put("/unlike/{post_id}", h.handleUnlike)
	r.Post("/comment/{post_id}", h.handleAddComment)
	r.Delete("/comment/{post_id}/{comment_id}", h.handleRemoveComment)
}

func requireUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("No token, authorization denied", nil))
	}
	return userID, ok
}

// handleCreate godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param postBody body posts.CreatePostRequest true "Post text"
// @Success 200 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/posts [post]
func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := validation.Struct(req, textMessages); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	post, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, post)
}

// handleList godoc
// @Summary List all posts, newest first
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} posts.Post
// @Failure 401 {object} apperror.ErrorResponse
// @Router /api/posts [get]
func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	if list == nil {
		list = []*Post{}
	}
	auth.WriteJSON(w, http.StatusOK, list)
}

// handleGet godoc
// @Summary Get a post by id
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Success 200 {object} posts.Post
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/{post_id} [get]
func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "post_id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, post)
}

// handleDelete godoc
// @Summary Delete a post owned by the current user
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Success 200 {object} posts.MessageResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the post owner"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/{post_id} [delete]
func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "post_id")); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, MessageResponse{Msg: "Post removed"})
}

// handleLike godoc
// @Summary Like a post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Success 200 {array} posts.Like "Updated likes list"
// @Failure 400 {object} apperror.ErrorResponse "Post already liked"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/like/{post_id} [put]
func (h *Handlers) handleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	likes, err := h.service.Like(r.Context(), userID, chi.URLParam(r, "post_id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, likes)
}

// handleUnlike godoc
// @Summary Remove the current user's like from a post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Success 200 {array} posts.Like "Updated likes list"
// @Failure 400 {object} apperror.ErrorResponse "Post has not yet been liked"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/unlike/{post_id} [put]
func (h *Handlers) handleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	likes, err := h.service.Unlike(r.Context(), userID, chi.URLParam(r, "post_id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, likes)
}

// handleAddComment godoc
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Param commentBody body posts.AddCommentRequest true "Comment text"
// @Success 200 {array} posts.Comment "Updated comments list"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /api/posts/comment/{post_id} [post]
func (h *Handlers) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
		return
	}
	defer r.Body.Close()

	if err := validation.Struct(req, textMessages); err != nil {
		auth.WriteError(w, r, err)
		return
	}

	comments, err := h.service.AddComment(r.Context(), userID, chi.URLParam(r, "post_id"), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, comments)
}

// handleRemoveComment godoc
// @Summary Remove the current user's comment from a post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param post_id path string true "Post id"
// @Param comment_id path string true "Comment id"
// @Success 200 {array} posts.Comment "Updated comments list"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the comment owner"
// @Failure 404 {object} apperror.ErrorResponse "Post or comment not found"
// @Router /api/posts/comment/{post_id}/{comment_id} [delete]
func (h *Handlers) handleRemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	comments, err := h.service.RemoveComment(r.Context(), userID,
		chi.URLParam(r, "post_id"), chi.URLParam(r, "comment_id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, comments)
}
