package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"pedlop-auth/internal/cookie"
	"pedlop-auth/internal/middleware"
	"pedlop-auth/internal/model"
	"pedlop-auth/internal/service"
	"pedlop-auth/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
	cookies *cookie.Transport
}

func NewAuthHandler(service *service.AuthService, cookies *cookie.Transport) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "invalid JSON body"))
		return
	}

	user, err := h.service.Signup(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, "Auth user added successfully.")
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "invalid JSON body"))
		return
	}

	user, err := h.service.Signin(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	grant, err := h.service.IssueSession(user)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Attach(w, grant.Cookies, grant.Lifetime)
	writeSuccess(w, http.StatusOK, grant.Status, fmt.Sprintf("Welcome %s!", user.Username))
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	writeSuccess(w, http.StatusOK, model.SessionStatus{IsLogged: false}, "See you later!")
}

// Check reports session status. Absent cookies are not an error: the caller
// is simply not logged in. Present-but-invalid cookies fail like any other
// protected request.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if !h.cookies.HasSession(r) {
		writeSuccess(w, http.StatusOK, model.SessionStatus{IsLogged: false}, "")
		return
	}

	user, err := h.service.Resolve(r.Context(), h.cookies.Token(r), "")
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.SessionStatus{
		IsLogged:  true,
		UserID:    user.ID,
		ExpiresIn: h.cookies.Read(r, cookie.FieldTokenExpires),
		UserRole:  user.Role,
	}, "")
}

// Refresh re-issues a session for the already-validated user. The old token
// stays cryptographically valid until its natural expiry; only the cookies
// are replaced.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrInvalidCredentials)
		return
	}

	grant, err := h.service.IssueSession(user)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Attach(w, grant.Cookies, grant.Lifetime)
	writeSuccess(w, http.StatusOK, grant.Status, "")
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrInvalidCredentials)
		return
	}

	writeSuccess(w, http.StatusOK, user, "")
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrInvalidCredentials)
		return
	}

	var payload model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), user.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	if !updated {
		// The profile route shares the reset-password failure reason.
		writeError(w, apierror.New(http.StatusBadRequest, "Error when resetting password",
			"The profile could not be updated"))
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Auth user has been successfully updated")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "invalid JSON body"))
		return
	}

	if strings.TrimSpace(payload.Password) == "" {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "password is required"))
		return
	}

	updated, err := h.service.ResetPassword(r.Context(), payload.Token, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !updated {
		writeError(w, apierror.New(http.StatusBadRequest, "Error when resetting password",
			"The password could not be updated"))
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Password reset successfully")
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, users, "")
}

func (h *AuthHandler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")

	var payload model.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New(http.StatusBadRequest, "Invalid request", "invalid JSON body"))
		return
	}

	updated, err := h.service.UpdateUser(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	if !updated {
		// A missing id and an empty update land in the same outcome here,
		// matching the existing client contract.
		writeError(w, apierror.New(http.StatusBadRequest, "Error when updating user",
			"The user could not be updated"))
		return
	}

	writeSuccess(w, http.StatusOK, nil, "Auth user has been successfully updated")
}
