package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/afzalbekoribjonov/zzz/internal/storage"
)

// FileHandler serves stored post attachments back to clients, keyed by the
// generated filename.
type FileHandler struct {
	files *storage.FileStore
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(files *storage.FileStore) *FileHandler {
	return &FileHandler{files: files}
}

// Serve responds with the attachment content.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, err := h.files.Open(name)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
