package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/martkit/user-service/internal/middleware"
	"github.com/martkit/user-service/internal/model"
	"github.com/martkit/user-service/internal/service"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// ProfileHandler handles HTTP requests for profile operations. Every route
// it serves sits behind the cookie auth gate.
type ProfileHandler struct {
	profiles *service.ProfileService
	auth     *service.AuthService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, auth *service.AuthService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, auth: auth}
}

// HandleGetProfile handles GET /profile requests.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to fetch profile"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(map[string]any{"profile": profile}))
}

// HandleUpdateProfile handles PUT /profile requests.
func (h *ProfileHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.profiles.UpdateProfile(r.Context(), identity.UserID, req); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(nil))
}

// HandleChangePassword handles PUT /profile/password requests.
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.auth.ChangePassword(r.Context(), identity.UserID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse("missing fields"))
		case errors.Is(err, service.ErrAccountNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, errorResponse("old password incorrect"))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("failed to change password"))
		}
		return
	}

	writeJSON(w, http.StatusOK, successResponse(nil))
}

// HandleUpdatePreferences handles PUT /profile/preferences requests. The
// body is a partial mapping merged over the stored preferences.
func (h *ProfileHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	merged, err := h.profiles.UpdatePreferences(r.Context(), identity.UserID, partial)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to update preferences"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(map[string]any{"preferences": merged}))
}

// HandleUploadAvatar handles POST /profile/avatar requests. Expects a
// multipart form with an image in the `avatar` field, at most 5 MiB.
func (h *ProfileHandler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize+4096)

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("no file uploaded"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("no file uploaded"))
		return
	}
	defer file.Close()

	ref, err := h.profiles.UploadAvatar(r.Context(), identity.UserID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, service.ErrNotAnImage) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to upload avatar"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(map[string]any{"avatar": ref}))
}

// HandleRemoveAvatar handles POST /profile/avatar/remove requests.
func (h *ProfileHandler) HandleRemoveAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.profiles.RemoveAvatar(r.Context(), identity.UserID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to remove avatar"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(nil))
}
