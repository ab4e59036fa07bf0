package handlers

import (
	"net/http"

	"github.com/esportsfed/platform/middleware"
	"github.com/esportsfed/platform/models"
	"github.com/esportsfed/platform/services"
	"github.com/go-chi/chi/v5"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(newsService services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

func (h *NewsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title   string `json:"title"`
		Body    string `json:"body"`
		Publish bool   `json:"publish"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	authorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	post, err := h.newsService.CreatePost(r.Context(), services.CreateNewsInput{
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: authorID,
		Publish:  input.Publish,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		badRequestResponse(w, r, errMissingSlug)
		return
	}

	post, err := h.newsService.GetPostBySlug(r.Context(), slug)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := readPagination(r)

	// Only staff see unpublished drafts.
	publishedOnly := true
	if role, ok := middleware.GetRoleFromContext(r.Context()); ok && role == models.RoleAdmin {
		publishedOnly = false
	}

	posts, err := h.newsService.ListPosts(r.Context(), limit, offset, publishedOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) PublishPost(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.newsService.PublishPost(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.newsService.DeletePost(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
