package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/afzalbekoribjonov/zzz/internal/auth"
	"github.com/afzalbekoribjonov/zzz/internal/services"
)

// FollowHandler handles HTTP requests for the follow graph.
type FollowHandler struct {
	service services.FollowServiceProvider
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(service services.FollowServiceProvider) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow records the session user following the target user.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	actorID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	follow, err := h.service.Follow(actorID, followedID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("follower_id", actorID).Int64("followed_id", followedID).Msg("Failed to follow user")
		http.Error(w, "Failed to follow user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(follow)
}

// Unfollow removes the session user's follow of the target user.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followedID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}
	actorID, ok := auth.SessionUserID(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := h.service.Unfollow(actorID, followedID); err != nil {
		if errors.Is(err, services.ErrFollowNotFound) {
			http.Error(w, "You are not following this user", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("follower_id", actorID).Int64("followed_id", followedID).Msg("Failed to unfollow user")
		http.Error(w, "Failed to unfollow user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
