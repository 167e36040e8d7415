package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/auth"
	"server/internal/domain"
)

// UserService handles registration, login, and profile lookups. Tokens are
// issued here so handlers never touch the signing secret directly.
type UserService struct {
	users    domain.UserRepository
	secret   string
	tokenTTL time.Duration
}

// NewUserService creates a UserService.
func NewUserService(users domain.UserRepository, secret string, tokenTTL time.Duration) *UserService {
	return &UserService{users: users, secret: secret, tokenTTL: tokenTTL}
}

// RegisterInput carries a registration request. Role defaults to DONOR.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// Register creates an account and issues a token for it. A taken email
// surfaces as ErrConflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email, and password are required", domain.ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters long", domain.ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = domain.RoleDonor
	}
	if !in.Role.Valid() {
		return nil, "", fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrUnauthenticated
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", domain.ErrUnauthenticated
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the account behind the given id.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) issueToken(user *domain.User) (string, error) {
	return auth.SignToken(s.secret, auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, s.tokenTTL)
}
