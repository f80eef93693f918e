package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/ekaksh/internal/domain"
)

// User-facing messages.
const (
	msgPasswordMismatch     = "Passwords do not match!"
	msgDuplicateUsername    = "Username already exists! Please choose another one."
	msgInvalidCredentials   = "Invalid username or password"
	msgEmptyQuery           = "Please enter a valid query"
	msgAssistantUnavailable = "The assistant is unavailable right now. Please try again."
	msgRateLimited          = "Too many attempts. Please wait a moment and try again."
	msgNotAuthenticated     = "Not authenticated."
	msgBadRequest           = "Invalid request body."
	msgInternal             = "An unexpected error occurred. Please try again."

	flashRegistered = "Registration successful! Please log in."
	flashLoggedIn   = "Login successful!"
	flashLoggedOut  = "You have been logged out."
	flashLoginFirst = "Please log in to use the assistant."
)

// errorResponse maps a service error to a status code and message. api
// selects the JSON API status for duplicates; HTML forms re-render with 422.
func errorResponse(err error, api bool) (int, string) {
	switch {
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity, msgPasswordMismatch
	case errors.Is(err, domain.ErrDuplicateUsername):
		if api {
			return http.StatusConflict, msgDuplicateUsername
		}
		return http.StatusUnprocessableEntity, msgDuplicateUsername
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusUnprocessableEntity, msgEmptyQuery
	case errors.Is(err, domain.ErrAssistantUnavailable):
		return http.StatusBadGateway, msgAssistantUnavailable
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, msgNotAuthenticated
	default:
		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, msgInternal
	}
}
