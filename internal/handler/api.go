package handler

import (
	"net/http"
)

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"username":"...","password":"...","confirmPassword":"..."}
// Response: 201 {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		status, msg := errorResponse(err, true)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request and sets the session cookie.
// POST /api/auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"user": {"username": "..."}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := h.login(w, r, req.Username, req.Password); err != nil {
		status, msg := errorResponse(err, true)
		writeError(w, status, msg)
		return
	}

	username, _ := SessionFromContext(r.Context()).CurrentUser()
	writeJSON(w, http.StatusOK, map[string]any{
		"user": UserDTO{Username: username},
	})
}

// HandleLogout ends the session.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.logout(w, r); err != nil {
		status, msg := errorResponse(err, true)
		writeError(w, status, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the logged-in user.
// GET /api/auth/me
// Response: {"user": {"username": "..."}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := SessionFromContext(r.Context()).CurrentUser()
	if !ok {
		writeError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": UserDTO{Username: username},
	})
}
