package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/fetch"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// jsonResponse writes a success envelope around data.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any, message string) {
	s.writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// errorResponse writes an error envelope.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, envelope{Success: false, Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// serviceError maps err to a status code. Client errors carry their message; server
// errors are logged and reported generically.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	var fetchErr *fetch.Error
	var schemaErr *schemas.ValidationError
	switch {
	case errors.As(err, &fetchErr):
		s.errorResponse(w, status, "failed to fetch job posting: "+fetchErr.Message)
	case status == http.StatusBadGateway:
		s.errorResponse(w, status, "failed to generate resume, please try again later")
	case status >= http.StatusInternalServerError:
		s.errorResponse(w, status, "internal server error")
	case errors.As(err, &schemaErr):
		s.errorResponse(w, status, schemaErr.Summary())
	default:
		s.errorResponse(w, status, err.Error())
	}
}

// decodeJSON reads the request body into dst. Unknown fields are ignored.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &ErrValidation{Message: "request body is empty"}
		case errors.As(err, &maxErr):
			return &ErrValidation{Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		default:
			return &ErrValidation{Message: "invalid JSON body: " + err.Error()}
		}
	}
	return nil
}

// requestValidator is implemented by the request types in internal/types.
type requestValidator interface {
	Validate() error
}

// decodeRequest decodes and validates a request body, writing the error response itself.
// It reports whether the handler should continue.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req requestValidator) bool {
	if err := s.decodeJSON(w, r, req); err != nil {
		s.serviceError(w, r, err)
		return false
	}
	if err := req.Validate(); err != nil {
		s.serviceError(w, r, err)
		return false
	}
	return true
}

// pathID parses the {id} path value.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user ID, writing a 401 when there is none.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return userID, true
}
