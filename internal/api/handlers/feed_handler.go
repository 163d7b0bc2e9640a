package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/services"
)

// FeedHandler handles HTTP requests for the two feed views.
type FeedHandler struct {
	service services.FeedServiceProvider
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(service services.FeedServiceProvider) *FeedHandler {
	return &FeedHandler{service: service}
}

// Global serves every post with the viewer's follow-status map.
func (h *FeedHandler) Global(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	page, err := h.service.GlobalFeed(viewerID)
	if err != nil {
		log.Error().Err(err).Int64("viewer_id", viewerID).Msg("Failed to assemble global feed")
		http.Error(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

// Following serves only posts from authors the viewer follows.
func (h *FeedHandler) Following(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	page, err := h.service.FollowingFeed(viewerID)
	if err != nil {
		log.Error().Err(err).Int64("viewer_id", viewerID).Msg("Failed to assemble following feed")
		http.Error(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}
