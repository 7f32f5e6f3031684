package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mgrist/texlien/internal/auth"
	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Auth service errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// AuthService defines the interface for account and session logic.
type AuthService interface {
	// Register creates an account with a bcrypt-hashed password.
	// Returns ErrEmailTaken when the email is in use.
	Register(ctx context.Context, email, displayName, password string) (*models.User, error)

	// Login verifies credentials and returns a signed token. Returns
	// ErrInvalidCredentials for a bad email, password, or disabled account.
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

type authService struct {
	users repository.UserRepository
	jwt   auth.JWT
	log   *logger.Logger
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users repository.UserRepository, jwt auth.JWT, log *logger.Logger) AuthService {
	return &authService{users: users, jwt: jwt, log: log}
}

func (s *authService) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Active:       true,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	s.log.Info("User registered", map[string]interface{}{"user_id": id})
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.Active {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("Failed login attempt", map[string]interface{}{"user_id": user.ID})
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.jwt.Sign(auth.Claims{UserID: user.ID, Email: user.Email})
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}
