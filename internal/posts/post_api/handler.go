package post_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voice-of-rajkot/internal/auth"
	"voice-of-rajkot/internal/logger"
	"voice-of-rajkot/internal/models"
	"voice-of-rajkot/internal/posts"
	"voice-of-rajkot/internal/utils"
)

type Handler struct {
	PostService *posts.PostService
	Logger      *logger.Logger
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, posts.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, posts.ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, posts.ErrInvalidPost):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreatePost: received request")

	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePost: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	post, err := h.PostService.CreatePost(auth.UserID(r.Context()), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePost: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not create post", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Post created", post))
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")

	post, err := h.PostService.GetPost(postID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPost: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not fetch post", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Post found", post))
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := h.PostService.ListPosts()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListPosts: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list posts", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Posts listed", list))
}

func (h *Handler) ListPostsByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "authorId")

	list, err := h.PostService.ListPostsByAuthor(authorID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListPostsByAuthor: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list posts", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Posts listed", list))
}

func (h *Handler) ListPostsByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")

	list, err := h.PostService.ListPostsByTag(tag)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListPostsByTag: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Could not list posts", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Posts listed", list))
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	h.Logger.Info("API", fmt.Sprintf("UpdatePost: postId=%s", postID))

	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdatePost: failed to decode request body: %v", err))
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	post, err := h.PostService.UpdatePost(auth.UserID(r.Context()), postID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdatePost: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not update post", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Post updated", post))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	h.Logger.Info("API", fmt.Sprintf("DeletePost: postId=%s", postID))

	if err := h.PostService.DeletePost(auth.UserID(r.Context()), postID); err != nil {
		h.Logger.Error("API", fmt.Sprintf("DeletePost: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not delete post", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Post deleted", nil))
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	h.Logger.Info("API", fmt.Sprintf("ToggleLike: postId=%s", postID))

	post, err := h.PostService.ToggleLike(auth.UserID(r.Context()), postID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ToggleLike: %v", err))
		utils.WriteJSON(w, statusFor(err), utils.ErrorResponse("Could not toggle like", err.Error()))
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Like toggled", post))
}
