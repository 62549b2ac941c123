package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tripmate/internal/service"
)

type CreatePostRequest struct {
	Content     string   `json:"content"`
	Images      []string `json:"images" validate:"max=10,dive,max=2048"`
	Location    string   `json:"location" validate:"max=100"`
	Destination string   `json:"destination" validate:"max=100"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req CreatePostRequest
	if !h.decode(w, r, &req, "Invalid post data") {
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), p.ID, service.CreatePostInput{
		Content:     req.Content,
		Images:      req.Images,
		Location:    req.Location,
		Destination: req.Destination,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Post created successfully", post, http.StatusCreated)
}

func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.FeedService.ComposeFeed(r.Context(), p.ID, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("posts", "totalPosts", page), http.StatusOK)
}

func (h *Handlers) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.FeedService.ListUserPosts(r.Context(), mux.Vars(r)["userId"], p.ID, pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("posts", "totalPosts", page), http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.PostService.DeletePost(r.Context(), mux.Vars(r)["postId"], p.ID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Post deleted successfully", nil, http.StatusOK)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	likes, err := h.PostService.Like(r.Context(), mux.Vars(r)["postId"], p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Post liked successfully", map[string]int{"likesCount": likes}, http.StatusOK)
}

func (h *Handlers) UnlikePost(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	likes, err := h.PostService.Unlike(r.Context(), mux.Vars(r)["postId"], p.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Post unliked successfully", map[string]int{"likesCount": likes}, http.StatusOK)
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req CommentRequest
	if !h.decode(w, r, &req, "Invalid comment data") {
		return
	}

	comment, err := h.PostService.AddComment(r.Context(), mux.Vars(r)["postId"], p.ID, req.Content)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Comment added successfully", comment, http.StatusCreated)
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	page, err := h.PostService.ListComments(r.Context(), mux.Vars(r)["postId"], pageRequest(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "", pageBody("comments", "totalComments", page), http.StatusOK)
}

func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, fmt.Sprintf("File too large (max %d MB)", h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			WriteError(w, "Could not process the upload", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := h.PostService.UploadImage(r.Context(), p.ID, header.Filename, file, header.Size)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, "Image uploaded successfully", image, http.StatusCreated)
}
