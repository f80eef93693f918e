package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/msomdec/ekaksh/internal/view"
)

const flashCookieName = "flash"

// FlashFromContext returns the flash message read by WithFlash, or nil.
func FlashFromContext(ctx context.Context) *view.Flash {
	flash, _ := ctx.Value(flashContextKey).(*view.Flash)
	return flash
}

// setFlash stores a message to show on the next page load.
func setFlash(w http.ResponseWriter, flashType, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(flashType + ":" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithFlash reads and clears the flash cookie.
func WithFlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var flash *view.Flash
		if cookie, err := r.Cookie(flashCookieName); err == nil && cookie.Value != "" {
			flash = parseFlash(cookie.Value)
			http.SetCookie(w, &http.Cookie{
				Name:     flashCookieName,
				Value:    "",
				Path:     "/",
				MaxAge:   -1,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), flashContextKey, flash)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseFlash(raw string) *view.Flash {
	value, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	flashType, message, ok := strings.Cut(value, ":")
	if !ok {
		return &view.Flash{Type: "info", Message: value}
	}
	return &view.Flash{Type: flashType, Message: message}
}
