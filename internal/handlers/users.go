package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/repositories"
)

// UserHandler implements profile reads and the account mutation flows. Every
// mutation walks the same ladder: require a session, validate the input
// shape, verify the current credential, then apply.
type UserHandler struct {
	Users UserStore
	Feed  FeedCache
}

// Handle dispatches /api/v1/users/{id} by method.
func (h UserHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.profile(w, r, r.PathValue("id"))
	case http.MethodPut:
		h.changePassword(w, r, r.PathValue("id"))
	case http.MethodDelete:
		h.deleteAccount(w, r, r.PathValue("id"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DeleteSelf handles DELETE /api/v1/users/me: the session-scoped variant of
// account deletion.
func (h UserHandler) DeleteSelf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(r.Context(), w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	h.deleteAccount(w, r, identity.ID)
}

func (h UserHandler) profile(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user services unavailable"})
		return
	}

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		logger.Error("profile lookup failed", "error", err, "userId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to load profile"})
		return
	}

	// models.User omits the password hash from its JSON form.
	respondJSON(ctx, w, http.StatusOK, user)
}

func (h UserHandler) changePassword(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user services unavailable"})
		return
	}

	identity := auth.IdentityFromContext(ctx)
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid password change payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmNewPassword == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "all fields are required"})
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "new passwords do not match"})
		return
	}

	if err := auth.RequireOwnership(identity, id); err != nil {
		logger.Warn("password change denied", "userId", identity.ID, "targetId", id)
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "you can only change your own password"})
		return
	}

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		logger.Error("password change lookup failed", "error", err, "userId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to change password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)) != nil {
		logger.Warn("password change wrong current password", "userId", id)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "incorrect current password"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("password change failed to hash", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "failed to secure password"})
		return
	}

	// Conditional swap against the hash just verified: if another change
	// landed in between, the stored credential has moved and this one no
	// longer verifies.
	if err := h.Users.UpdatePassword(ctx, id, user.Password, string(newHash)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
		case errors.Is(err, repositories.ErrConflict):
			logger.Warn("password change lost update race", "userId", id)
			respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "incorrect current password"})
		default:
			logger.Error("password change failed", "error", err, "userId", id)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to change password"})
		}
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "password updated successfully"})
}

func (h UserHandler) deleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "user services unavailable"})
		return
	}

	identity := auth.IdentityFromContext(ctx)
	if err := auth.RequireAuthenticated(identity); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid account deletion payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Password == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "password is required"})
		return
	}

	if err := auth.RequireOwnership(identity, id); err != nil {
		logger.Warn("account deletion denied", "userId", identity.ID, "targetId", id)
		respondJSON(ctx, w, http.StatusForbidden, map[string]string{"error": "you can only delete your own account"})
		return
	}

	user, err := h.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		logger.Error("account deletion lookup failed", "error", err, "userId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to delete account"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		logger.Warn("account deletion wrong password", "userId", id)
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "incorrect password"})
		return
	}

	deleteCtx, span := logging.StartSpan(ctx, "users.delete")
	err = h.Users.Delete(deleteCtx, id)
	span.End()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		logger.Error("account deletion failed", "error", err, "userId", id)
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "unable to delete account"})
		return
	}

	// Owned videos cascade with the account; drop their cached feeds.
	if h.Feed != nil {
		h.Feed.Invalidate(id)
	}

	logger.Info("account deleted", "userId", id)
	respondJSON(ctx, w, http.StatusOK, map[string]string{"message": "account deleted successfully"})
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}
