package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/ekaksh/internal/domain"
	"github.com/msomdec/ekaksh/internal/metrics"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// AuthService handles user registration and credential verification.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
	metrics    *metrics.Metrics

	// dummyHash is compared against when the username is unknown so that a
	// failed login costs one bcrypt comparison either way.
	dummyHash []byte
}

// NewAuthService creates a new AuthService. m may be nil.
func NewAuthService(users domain.UserRepository, bcryptCost int, m *metrics.Metrics) *AuthService {
	// An invalid cost leaves dummyHash nil; Register reports the error.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("ekaksh-unknown-user"), bcryptCost)
	return &AuthService{
		users:      users,
		bcryptCost: bcryptCost,
		metrics:    m,
		dummyHash:  dummy,
	}
}

// Register creates a new user account. Checks run in order: username
// present, passwords match, username free. Nothing is stored unless all
// of them pass.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	user, err := s.register(ctx, username, password, confirmPassword)
	s.metrics.AuthEvent("register", authOutcome(err))
	return user, err
}

func (s *AuthService) register(ctx context.Context, username, password, confirmPassword string) (*domain.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}

	if password != confirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the verified username. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	name, err := s.login(ctx, username, password)
	s.metrics.AuthEvent("login", authOutcome(err))
	return name, err
}

func (s *AuthService) login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		if s.dummyHash != nil {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		}
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return user.Username, nil
}

func authOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "password_mismatch"
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}
