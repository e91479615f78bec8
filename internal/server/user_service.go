package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// LoginResult is an authenticated user and the token for the new session.
type LoginResult struct {
	User      *db.User  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserService provides business logic for user authentication operations
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
	jwtService     *JWTService
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig, jwtService *JWTService) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
		jwtService:     jwtService,
	}
}

// Register creates a new account. Username and email must both be unused.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*db.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.passwordConfig.CheckPolicy(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, &ErrUsernameTaken{Username: username}
	}
	existing, err = s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, &db.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: passwordHash,
	})
	if err != nil {
		// Lost a race with a concurrent registration
		var uv *db.UniqueViolationError
		if errors.As(err, &uv) {
			if uv.Field == "email" {
				return nil, &ErrEmailAlreadyExists{Email: email}
			}
			return nil, &ErrUsernameTaken{Username: username}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the password, opens a session and issues a token for it.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*LoginResult, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if user == nil || !user.IsActive {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return s.openSession(ctx, user)
}

func (s *UserService) openSession(ctx context.Context, user *db.User) (*LoginResult, error) {
	session, err := s.store.CreateSession(ctx, user.ID, s.jwtService.TTL())
	if err != nil {
		return nil, err
	}
	token, err := s.jwtService.GenerateToken(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deactivates the session, revoking its token.
func (s *UserService) Logout(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.store.DeactivateSession(ctx, sessionID, userID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// SessionActive implements middleware.SessionChecker.
func (s *UserService) SessionActive(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	session, err := s.store.GetActiveSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return session != nil && session.UserID == userID, nil
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, user.PasswordHash) {
		return &ErrPasswordMismatch{}
	}
	if err := s.passwordConfig.CheckPolicy(newPassword); err != nil {
		return err
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateAccount applies the non-nil fields of req to the user's account details.
func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*db.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			other, err := s.store.GetUserByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			if other != nil {
				return nil, &ErrEmailAlreadyExists{Email: email}
			}
		}
		user.Email = email
	}

	updated, err := s.store.UpdateUser(ctx, user)
	if err != nil {
		var uv *db.UniqueViolationError
		if errors.As(err, &uv) {
			return nil, &ErrEmailAlreadyExists{Email: user.Email}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}
