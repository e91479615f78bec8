// Package server provides the HTTP REST API for the résumé optimizer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/generation"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/validation"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrUsernameTaken indicates the username is already registered
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already taken: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailErr    *ErrEmailAlreadyExists
		usernameErr *ErrUsernameTaken
		credErr     *ErrInvalidCredentials
		mismatchErr *ErrPasswordMismatch
		notFoundErr *ErrUserNotFound
		validErr    *ErrValidation
		reqErr      *types.RequestError
		shapeErr    *validation.InputShapeError
		schemaErr   *schemas.ValidationError
		parseErr    *generation.ParseError
		genErr      *generation.Error
		fetchErr    *fetch.Error
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &emailErr), errors.As(err, &usernameErr):
		return http.StatusConflict
	case errors.As(err, &credErr), errors.As(err, &mismatchErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	// Model output failures wrap schema and shape errors, so they are matched first.
	case errors.As(err, &parseErr), errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.As(err, &validErr), errors.As(err, &reqErr), errors.As(err, &shapeErr),
		errors.As(err, &schemaErr),
		errors.Is(err, config.ErrPasswordTooShort), errors.Is(err, config.ErrPasswordTooLong):
		return http.StatusBadRequest
	case errors.As(err, &fetchErr):
		if fetchErr.Retryable {
			return http.StatusBadGateway
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
