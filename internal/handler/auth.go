package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/martkit/user-service/internal/middleware"
	"github.com/martkit/user-service/internal/model"
	"github.com/martkit/user-service/internal/service"
)

// AuthHandler handles HTTP requests for registration, login and session
// verification.
type AuthHandler struct {
	service     *service.AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{service: svc, tokenExpiry: tokenExpiry}
}

// HandleRegister handles POST /register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	id, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("registration failed"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, successResponse(map[string]any{"id": id}))
}

// HandleLogin handles POST /login requests. On success the session token
// is set as an HTTP-only, lax-same-site cookie; no server-side session
// record is created.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	token, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse("email and password required"))
		case errors.Is(err, service.ErrAccountNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrWrongPassword):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("login failed"))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenExpiry / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, successResponse(nil))
}

// HandleWhoAmI handles GET / requests. The identity comes straight from
// the validated token claims, not a store lookup, so the name reflects the
// value at login time.
func (h *AuthHandler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, successResponse(map[string]any{
		"id":   identity.UserID,
		"name": identity.Name,
	}))
}

// HandleLogout handles POST /logout requests. Clearing the cookie is
// idempotent: logging out while not logged in is a no-op success.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, successResponse(nil))
}
