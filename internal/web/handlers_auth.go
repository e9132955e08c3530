package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/db"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User *db.User `json:"user"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Signup creates an account and starts a session (POST /api/auth/signup).
// The username stays unset until onboarding.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.internalError(w, "signup", err)
		return
	}

	user := &db.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Theme:        "system",
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.internalError(w, "signup", err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Login verifies credentials and starts a session (POST /api/auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.internalError(w, "login", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

// Logout destroys the session (POST /api/auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, updateResponse{Success: true})
}

// SessionInfo returns the session user, or a null user when the request
// is unauthenticated (GET /api/auth/session).
func (h *Handlers) SessionInfo(w http.ResponseWriter, r *http.Request) {
	_, user := h.currentUser(r)
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

// UsernameAvailable checks whether a candidate username can be claimed
// (GET /api/auth/username?u=). Always 200; the verdict is in the body.
func (h *Handlers) UsernameAvailable(w http.ResponseWriter, r *http.Request) {
	candidate := auth.NormalizeUsername(r.URL.Query().Get("u"))

	if err := auth.ValidateUsername(candidate); err != nil {
		writeJSON(w, http.StatusOK, availabilityResponse{Available: false, Reason: err.Error()})
		return
	}

	taken, err := h.users.UsernameTaken(r.Context(), candidate)
	if err != nil {
		h.internalError(w, "username availability", err)
		return
	}
	if taken {
		writeJSON(w, http.StatusOK, availabilityResponse{Available: false, Reason: "username is taken"})
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: true})
}

// ClaimUsername sets the session user's username during onboarding
// (PUT /api/auth/username).
func (h *Handlers) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	_, user := h.currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	username := auth.NormalizeUsername(req.Username)
	if err := auth.ValidateUsername(username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user.Username = &username
	if err := h.users.Update(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeError(w, http.StatusConflict, "Username is taken")
			return
		}
		h.internalError(w, "claim username", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

// UpdateAccount edits the session user's profile (PUT /api/account).
// Absent fields are left unchanged.
func (h *Handlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	_, user := h.currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Theme    *string `json:"theme"`
		Username *string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Theme != nil {
		if !auth.ValidTheme(*req.Theme) {
			writeError(w, http.StatusBadRequest, "Theme must be light, dark or system")
			return
		}
		user.Theme = *req.Theme
	}
	if req.Username != nil {
		username := auth.NormalizeUsername(*req.Username)
		if err := auth.ValidateUsername(username); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		user.Username = &username
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeError(w, http.StatusConflict, "Username is taken")
			return
		}
		h.internalError(w, "update account", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: user})
}

// startSession issues a session cookie and responds with the user.
func (h *Handlers) startSession(w http.ResponseWriter, r *http.Request, user *db.User, status int) {
	session, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.internalError(w, "create session", err)
		return
	}
	h.sessions.SetCookie(w, session)
	writeJSON(w, status, sessionResponse{User: user})
}
