package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/limbo/habit-tracker/internal/error_values"
	"github.com/limbo/habit-tracker/pkg/httputil"
)

const (
	msgMissingFields      = "Please fill in all fields!"
	msgInvalidBody        = "Invalid request body"
	msgInvalidInput       = "Invalid input"
	msgInvalidCredentials = "Invalid Credentials"
	msgEmailTaken         = "Email already in use!"
	msgUserNotExist       = "That user does not exist"
	msgAdminProtected     = "ADMIN cannot be deleted"
	msgNoUser             = "No user with that ID found"
	msgNoHabit            = "No habit with that ID found"
	msgNoLog              = "No log for that date found"
	msgLogExists          = "Habit already logged for that date"
	msgInvalidID          = "Invalid ID"
	msgInvalidDate        = "Invalid date, expected YYYY-MM-DD"
	msgFutureDate         = "Date cannot be in the future"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgMisconfigured      = "Server misconfigured"
	msgServerError        = "Server Error"
)

// errorResponse maps a service error onto status code and client message.
// Anything unknown becomes a 500 without details.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errorvalues.ErrMissingFields):
		return http.StatusBadRequest, msgMissingFields
	case errors.Is(err, errorvalues.ErrInvalidID):
		return http.StatusBadRequest, msgInvalidID
	case errors.Is(err, errorvalues.ErrInvalidDate):
		return http.StatusBadRequest, msgInvalidDate
	case errors.Is(err, errorvalues.ErrFutureDate):
		return http.StatusBadRequest, msgFutureDate
	case errors.Is(err, errorvalues.ErrPasswordTooLong):
		return http.StatusBadRequest, msgPasswordTooLong
	case errors.Is(err, errorvalues.ErrValidation):
		return http.StatusBadRequest, msgInvalidInput
	case errors.Is(err, errorvalues.ErrInvalidCredentials), errors.Is(err, errorvalues.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, errorvalues.ErrUserNotFound):
		return http.StatusNotFound, msgNoUser
	case errors.Is(err, errorvalues.ErrHabitNotFound):
		return http.StatusNotFound, msgNoHabit
	case errors.Is(err, errorvalues.ErrLogNotFound):
		return http.StatusNotFound, msgNoLog
	case errors.Is(err, errorvalues.ErrEmailTaken):
		return http.StatusConflict, msgEmailTaken
	case errors.Is(err, errorvalues.ErrLogExists):
		return http.StatusConflict, msgLogExists
	case errors.Is(err, errorvalues.ErrAdminProtected):
		return http.StatusForbidden, msgAdminProtected
	case errors.Is(err, errorvalues.ErrConfiguration):
		return http.StatusInternalServerError, msgMisconfigured
	default:
		return http.StatusInternalServerError, msgServerError
	}
}

func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	code, msg := errorResponse(err)
	if code >= http.StatusInternalServerError {
		logger.Error(op+" error: service error", slog.String("error", err.Error()))
	} else {
		logger.Warn(op+" error", slog.String("error", err.Error()), slog.Int("status", code))
	}
	httputil.WriteErrorResponse(w, code, msg)
}
