package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/ekaksh/internal/service"
	"github.com/msomdec/ekaksh/internal/view"
)

// AuthHandler handles registration, login and logout for both the HTML
// forms and the JSON API.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookieSecure: cookieSecure}
}

// ShowLogin renders the login page.
// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if SessionFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/assistant", http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, view.LoginPage(FlashFromContext(r.Context()), "", ""))
}

// HandleLoginForm verifies credentials and marks the session as logged in.
// POST /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, r, http.StatusBadRequest, view.LoginPage(nil, msgBadRequest, ""))
		return
	}
	username := r.PostFormValue("username")

	if err := h.login(w, r, username, r.PostFormValue("password")); err != nil {
		status, msg := errorResponse(err, false)
		renderPage(w, r, status, view.LoginPage(nil, msg, username))
		return
	}

	setFlash(w, "success", flashLoggedIn)
	http.Redirect(w, r, "/assistant", http.StatusSeeOther)
}

// ShowRegister renders the registration page.
// GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.RegisterPage("", ""))
}

// HandleRegisterForm creates an account and sends the visitor to log in.
// POST /register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderPage(w, r, http.StatusBadRequest, view.RegisterPage(msgBadRequest, ""))
		return
	}
	username := r.PostFormValue("username")

	_, err := h.auth.Register(r.Context(), username, r.PostFormValue("password"), r.PostFormValue("confirm_password"))
	if err != nil {
		status, msg := errorResponse(err, false)
		renderPage(w, r, status, view.RegisterPage(msg, username))
		return
	}

	setFlash(w, "success", flashRegistered)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogoutForm ends the session.
// POST /logout
func (h *AuthHandler) HandleLogoutForm(w http.ResponseWriter, r *http.Request) {
	if err := h.logout(w, r); err != nil {
		slog.Error("end session", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	setFlash(w, "info", flashLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// login verifies credentials, then rotates the session and reissues the
// cookie. The session is untouched when verification fails.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, username, password string) error {
	verified, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		return err
	}

	sess := SessionFromContext(r.Context())
	if err := h.sessions.MarkAuthenticated(r.Context(), sess, verified); err != nil {
		return err
	}
	if err := setSessionCookie(w, h.sessions, sess, h.cookieSecure); err != nil {
		return err
	}

	slog.Info("user logged in", "username", verified)
	return nil
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) error {
	if err := h.sessions.End(r.Context(), SessionFromContext(r.Context())); err != nil {
		return err
	}
	clearSessionCookie(w, h.cookieSecure)
	return nil
}
