package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"budgetplan/internal/auth"
	"budgetplan/internal/core"
	"budgetplan/internal/log"
	"budgetplan/internal/storage"
)

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrPasswordTooWeak = fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	ErrNameRequired    = errors.New("name is required")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	store      Store
	bcryptCost int
}

func NewAuthService(store Store, bcryptCost int) *AuthService {
	return &AuthService{store: store, bcryptCost: bcryptCost}
}

type RegisterParams struct {
	Name     string
	Email    string
	Address  string
	Password string
}

func (s *AuthService) Register(ctx context.Context, p RegisterParams) (core.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))

	if p.Name == "" {
		return core.User{}, ErrNameRequired
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return core.User{}, ErrInvalidEmail
	}
	if len(p.Password) < auth.MinPasswordLength {
		return core.User{}, ErrPasswordTooWeak
	}

	hash, err := auth.HashPassword(p.Password, s.bcryptCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, core.User{
		Name:    p.Name,
		Email:   p.Email,
		Address: strings.TrimSpace(p.Address),
	}, hash)
	if err != nil {
		return core.User{}, err
	}

	slog.InfoContext(ctx, "User registered", log.FieldUserID, user.ID)
	return user, nil
}

// Login verifies the credentials and returns the user. Unknown emails
// and wrong passwords both map to ErrInvalidCredentials so the response
// does not leak which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return core.User{}, auth.ErrInvalidCredentials
		}
		return core.User{}, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return core.User{}, auth.ErrInvalidCredentials
	}
	return user, nil
}

// User loads a user by ID for session restoration.
func (s *AuthService) User(ctx context.Context, id int64) (core.User, error) {
	return s.store.GetUserByID(ctx, id)
}
