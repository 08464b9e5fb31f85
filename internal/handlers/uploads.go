package handlers

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
)

// maxUploadBytes caps the multipart form size for media uploads.
const maxUploadBytes = 256 << 20

// UploadHandler accepts media files and stores them in the object store,
// returning the public URL the client then submits on the video record.
type UploadHandler struct {
	Storage AssetStorage
}

// Upload handles POST /api/v1/uploads requests.
func (h UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Storage == nil {
		logger.Error("asset storage unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "upload services unavailable"})
		return
	}

	identity := auth.IdentityFromContext(ctx)
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		logger.Warn("invalid upload form", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	kind := r.FormValue("kind")
	if kind == "" {
		kind = "video"
	}
	if kind != "video" && kind != "thumbnail" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "kind must be video or thumbnail"})
		return
	}

	key := fmt.Sprintf("%ss/%s/%s%s", kind, identity.ID, uuid.NewString(), path.Ext(header.Filename))

	saveCtx, span := logging.StartSpan(ctx, "uploads.save")
	url, err := h.Storage.Save(saveCtx, key, header.Header.Get("Content-Type"), file)
	span.End()
	if err != nil {
		logger.Error("upload failed", "error", err, "key", key)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
		return
	}

	logger.Info("asset uploaded", "key", key, "size", header.Size, "userId", identity.ID)
	respondJSON(ctx, w, http.StatusCreated, uploadResponse{URL: url, Size: header.Size})
}

type uploadResponse struct {
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
