// Package types provides request and document types shared by the service, the CLI and
// the generation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest authenticates by username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password update request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// UpdateProfileRequest changes account details. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitnil,min=1"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	return ValidationMessage(validate.Struct(r))
}

// RequestError is a request that failed field validation.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ValidationMessage turns validator errors into a *RequestError naming the first failing
// field by its JSON name. A nil err stays nil.
func ValidationMessage(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &RequestError{Message: err.Error(), Err: err}
	}

	fe := fieldErrs[0]
	field := jsonName(fe.StructField())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("missing required field: %s", field)
	case "required_without":
		msg = fmt.Sprintf("missing required field: %s or %s", field, jsonName(fe.Param()))
	case "email":
		msg = fmt.Sprintf("invalid email: %s", field)
	case "url":
		msg = fmt.Sprintf("invalid URL: %s", field)
	case "datetime":
		msg = fmt.Sprintf("invalid date for %s: expected YYYY-MM-DD", field)
	case "oneof":
		msg = fmt.Sprintf("invalid value for %s: must be one of %s", field, fe.Param())
	case "min", "max", "gte", "lte":
		msg = fmt.Sprintf("invalid value for %s: must satisfy %s=%s", field, fe.Tag(), fe.Param())
	default:
		msg = fmt.Sprintf("invalid value for %s", field)
	}
	return &RequestError{Message: msg, Err: err}
}

// jsonName converts a Go field name such as JobURL or StartDate to its snake_case JSON name.
func jsonName(field string) string {
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
