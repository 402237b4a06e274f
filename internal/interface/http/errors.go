package handlers

import (
	"errors"
	"net/http"

	"github.com/kopidesk/identity-service/internal/application"
	"github.com/kopidesk/identity-service/pkg/helpers"
)

// statusFor maps application failures onto HTTP statuses. Anything outside
// the taxonomy is a storage or internal failure and stays opaque.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, helpers.ErrExpiredToken):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, helpers.ErrMalformedToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, application.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrInsufficientPermission):
		return http.StatusForbidden, "not enough permissions"
	case errors.Is(err, application.ErrCannotChangeOwnRole):
		return http.StatusForbidden, "cannot change own role"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
