package server

import (
	"net/http"

	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/server/middleware"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	s           *Server
	userService *UserService
}

// NewAuthHandler creates a new AuthHandler that writes responses through s.
func NewAuthHandler(s *Server, userService *UserService) *AuthHandler {
	return &AuthHandler{s: s, userService: userService}
}

// Register creates an account and logs it in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	s := h.s
	var req types.RegisterRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	result, err := h.userService.openSession(r.Context(), user)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	logger.Ctx(r.Context()).Info().Str("user_id", user.ID.String()).Msg("user registered")
	s.jsonResponse(w, http.StatusCreated, result, "registration successful")
}

// Login exchanges a username and password for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	s := h.s
	var req types.LoginRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	result, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result, "login successful")
}

// Logout ends the session of the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := h.s
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	if err := h.userService.Logout(r.Context(), userID, middleware.GetSessionID(r)); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nil, "logged out")
}

// UpdatePassword changes the caller's password after checking the current one.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	s := h.s
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdatePasswordRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	if err := h.userService.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nil, "password updated")
}
