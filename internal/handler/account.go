package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/webgames/accounts-go/internal/middleware"
	"github.com/webgames/accounts-go/internal/model"
	"github.com/webgames/accounts-go/internal/service"
)

// AccountService is the account behaviour served over HTTP.
type AccountService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error)
	SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResponse, error)
	UpdatePassword(ctx context.Context, principal model.Principal, req model.UpdatePasswordRequest) (model.AuthResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (model.UserProfile, error)
	DeleteUser(ctx context.Context, principal model.Principal, email string) error
}

// AccountHandler handles HTTP requests for user accounts.
type AccountHandler struct {
	service AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{service: svc}
}

// HandleHome handles GET /home requests.
func (h *AccountHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSignup handles POST /api/v1/user/signup requests.
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.Signup(r.Context(), req)
	if err != nil {
		// rejected signup fields are a malformed request, not a failed login
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleSignIn handles POST /api/v1/user/signin requests.
func (h *AccountHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req model.SignInRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.SignIn(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdatePassword handles PUT /api/v1/user/password requests.
func (h *AccountHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, err := h.service.UpdatePassword(r.Context(), principal, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetProfile handles GET /api/v1/user/profile/{username} requests.
func (h *AccountHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.PrincipalFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	username, err := pathParam(r, "username")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid username"))
		return
	}

	profile, err := h.service.GetProfileByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteUser handles DELETE /api/v1/user/{email} requests.
func (h *AccountHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	email, err := pathParam(r, "email")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid email"))
		return
	}

	if err := h.service.DeleteUser(r.Context(), principal, email); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathParam returns the decoded URL parameter. chi yields the raw segment
// when the request path carries escapes, such as %40 for @.
func pathParam(r *http.Request, name string) (string, error) {
	return url.PathUnescape(chi.URLParam(r, name))
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse(service.ErrInvalidCredentials.Error()))
	case errors.Is(err, service.ErrPasswordTooShort), errors.Is(err, service.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrDuplicateUser):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorizedOperation):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
