package service

import (
	"context"
	"errors"
	"strings"

	"github.com/grubhouse/storefront-api/internal/auth"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name, email, and password are required")
)

// UserService handles signup, login and profile access.
type UserService struct {
	repo   repository.UserRepository
	tokens *auth.Manager
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens *auth.Manager) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Signup registers a new account and returns the user with a signed token.
func (s *UserService) Signup(ctx context.Context, name, email, password, phone string) (*models.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, "", ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Phone:    phone,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates an account and returns the user with a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the user with the given ID.
func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
