package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/videos"
)

// VideoHandler provides the feed and the video upload/delete endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Feed    FeedCache
	NowFunc func() time.Time
}

// Handle dispatches /api/v1/videos by method.
func (h VideoHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.feed(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h VideoHandler) feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))

	if h.Feed != nil {
		if cached, ok := h.Feed.Get(ownerID); ok {
			respondJSON(ctx, w, http.StatusOK, cached)
			return
		}
	}

	list, err := h.Videos.List(ctx, ownerID)
	if err != nil {
		logger.Error("feed query failed", "error", err, "ownerId", ownerID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load videos"})
		return
	}

	if list == nil {
		list = []models.Video{}
	}

	if h.Feed != nil {
		h.Feed.Put(ownerID, list)
	}

	respondJSON(ctx, w, http.StatusOK, list)
}

func (h VideoHandler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	identity := auth.IdentityFromContext(ctx)
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" || req.Description == "" || req.VideoURL == "" || req.ThumbnailURL == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "please fill all fields"})
		return
	}

	controls := true
	if req.Controls != nil {
		controls = *req.Controls
	}

	// Owner always comes from the session, never the payload.
	video := models.Video{
		ID:             uuid.NewString(),
		OwnerID:        identity.ID,
		Title:          req.Title,
		Description:    req.Description,
		VideoURL:       req.VideoURL,
		ThumbnailURL:   req.ThumbnailURL,
		Controls:       controls,
		Transformation: videos.ApplyDefaults(req.Transformation),
		CreatedAt:      h.now(),
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The session outlived its account.
			logger.Warn("video create for missing owner", "userId", identity.ID)
			respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "account no longer exists"})
			return
		}
		logger.Error("video create failed", "error", err, "userId", identity.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to create video"})
		return
	}

	if h.Feed != nil {
		h.Feed.Invalidate(identity.ID)
	}

	respondJSON(ctx, w, http.StatusCreated, video)
}

func (h VideoHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "video services unavailable"})
		return
	}

	identity := auth.IdentityFromContext(ctx)
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req deleteVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid video deletion payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ID == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "missing video id"})
		return
	}

	video, err := h.Videos.FindByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("video lookup failed", "error", err, "videoId", req.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to delete video"})
		return
	}

	// Ownership is checked against the stored record, not the request.
	if err := auth.RequireOwnership(identity, video.OwnerID); err != nil {
		logger.Warn("video deletion denied", "userId", identity.ID, "videoId", video.ID, "ownerId", video.OwnerID)
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "you can only delete your own videos"})
		return
	}

	if err := h.Videos.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "video not found"})
			return
		}
		logger.Error("video deletion failed", "error", err, "videoId", req.ID)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to delete video"})
		return
	}

	if h.Feed != nil {
		h.Feed.Invalidate(video.OwnerID)
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "video deleted successfully"})
}

type createVideoRequest struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	VideoURL       string                `json:"videoUrl"`
	ThumbnailURL   string                `json:"thumbnailUrl"`
	Controls       *bool                 `json:"controls"`
	Transformation models.Transformation `json:"transformation"`
}

type deleteVideoRequest struct {
	ID string `json:"id"`
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
