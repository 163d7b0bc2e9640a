package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/services"
)

// Multipart uploads are capped to keep a single request from buffering an
// arbitrarily large attachment.
const maxUploadBytes = 10 << 20

// PostHandler handles HTTP requests for the post lifecycle. Create and edit
// accept multipart forms carrying the text fields and an optional picture.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles new post creation.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	title, content, date, attachment, errMsg := parsePostForm(r)
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadRequest)
		return
	}
	if attachment != nil {
		defer attachment.close()
	}

	post, err := h.service.CreatePost(actorID, title, content, date, attachment.upload())
	if err != nil {
		if errors.Is(err, services.ErrDuplicatePost) {
			http.Error(w, "You have already created this post", http.StatusConflict)
			return
		}
		log.Error().Err(err).Int64("user_id", actorID).Msg("Failed to create post")
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// Update handles post edits. Only the owning user may edit.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	actorID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	title, content, date, attachment, errMsg := parsePostForm(r)
	if errMsg != "" {
		http.Error(w, errMsg, http.StatusBadRequest)
		return
	}
	if attachment != nil {
		defer attachment.close()
	}

	post, err := h.service.EditPost(id, actorID, title, content, date, attachment.upload())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "You may only edit your own posts", http.StatusForbidden)
		default:
			log.Error().Err(err).Int64("post_id", id).Msg("Failed to edit post")
			http.Error(w, "Failed to edit post", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// Delete handles post deletion. Only the owning user may delete.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	actorID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := h.service.DeletePost(id, actorID); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			http.Error(w, "Post not found", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "You may only delete your own posts", http.StatusForbidden)
		default:
			log.Error().Err(err).Int64("post_id", id).Msg("Failed to delete post")
			http.Error(w, "Failed to delete post", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// formAttachment pairs an opened multipart file with its original name.
type formAttachment struct {
	file     multipart.File
	filename string
}

func (a *formAttachment) upload() *services.Upload {
	if a == nil {
		return nil
	}
	return &services.Upload{Filename: a.filename, Data: a.file}
}

func (a *formAttachment) close() {
	a.file.Close()
}

// parsePostForm extracts title, content, date and the optional picture from
// a multipart post form. A non-empty error message means a 400.
func parsePostForm(r *http.Request) (title, content, date string, attachment *formAttachment, errMsg string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", "", "", nil, "Invalid multipart form"
	}

	title = r.FormValue("title")
	content = r.FormValue("content")
	date = r.FormValue("date")
	if title == "" || content == "" || date == "" {
		return "", "", "", nil, "Title, content and date are required"
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", "", nil, "Date must be YYYY-MM-DD"
	}

	file, header, err := r.FormFile("picture")
	if err == http.ErrMissingFile {
		return title, content, date, nil, ""
	}
	if err != nil {
		return "", "", "", nil, "Invalid picture upload"
	}
	return title, content, date, &formAttachment{file: file, filename: header.Filename}, ""
}
