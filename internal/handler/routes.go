package handler

import (
	"net/http"

	"github.com/msomdec/ekaksh/internal/metrics"
	"github.com/msomdec/ekaksh/internal/service"
)

// Deps are the services the HTTP layer needs.
type Deps struct {
	Auth         *service.AuthService
	Sessions     *service.SessionService
	Assistant    *service.AssistantRouter
	DB           Pinger               // nil reports healthy unconditionally
	Limiter      *service.TokenBucket // nil disables rate limiting
	Metrics      *metrics.Metrics     // nil disables metrics
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Sessions, d.CookieSecure)
	assistantHandler := NewAssistantHandler(d.Assistant)

	hf := func(f http.HandlerFunc) http.Handler { return f }
	session := func(h http.Handler) http.Handler {
		return WithSession(d.Sessions, d.CookieSecure, h)
	}
	page := func(h http.Handler) http.Handler {
		return session(WithFlash(h))
	}
	limited := func(api bool, h http.Handler) http.Handler {
		return RateLimit(d.Limiter, api, h)
	}

	mux.Handle("GET /healthz", HandleHealthz(d.DB))
	mux.Handle("GET /metrics", d.Metrics.Handler())

	// HTML pages.
	mux.Handle("GET /{$}", session(hf(HandleHome)))
	mux.Handle("GET /login", page(hf(authHandler.ShowLogin)))
	mux.Handle("POST /login", limited(false, page(hf(authHandler.HandleLoginForm))))
	mux.Handle("GET /register", page(hf(authHandler.ShowRegister)))
	mux.Handle("POST /register", limited(false, page(hf(authHandler.HandleRegisterForm))))
	mux.Handle("POST /logout", session(hf(authHandler.HandleLogoutForm)))
	mux.Handle("GET /assistant", page(RequireAuth(hf(assistantHandler.ShowAssistant))))
	mux.Handle("POST /assistant/query", session(RequireAuth(hf(assistantHandler.HandleQuery))))

	// JSON API.
	mux.Handle("POST /api/auth/register", limited(true, session(hf(authHandler.HandleRegister))))
	mux.Handle("POST /api/auth/login", limited(true, session(hf(authHandler.HandleLogin))))
	mux.Handle("POST /api/auth/logout", session(hf(authHandler.HandleLogout)))
	mux.Handle("GET /api/auth/me", session(hf(authHandler.HandleMe)))
	mux.Handle("POST /api/assistant/query", session(RequireAPIAuth(hf(assistantHandler.HandleAPIQuery))))
}

// NewHandler builds the complete HTTP handler: routes plus the global
// recovery, security header and instrumentation middleware.
func NewHandler(d Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, d)
	return Recovery(SecurityHeaders(Instrument(d.Metrics, mux)))
}
