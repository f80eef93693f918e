package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// HandleHome sends logged-in users to the assistant and everyone else to
// the login page.
// GET /{$}
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if SessionFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, "/assistant", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}
