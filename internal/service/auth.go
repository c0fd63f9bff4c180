package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"canteen/internal/model"
	"canteen/internal/repository"
)

type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, login, password, name, phone string) (model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return model.User{}, invalid("login", "login and password required")
	}
	if len(password) < 6 {
		return model.User{}, invalid("password", "password must be at least 6 characters")
	}
	if name == "" {
		name = login
	}
	return s.create(ctx, login, password, name, phone, model.RoleCustomer)
}

// EnsureStaff creates a staff account unless one with the login already exists.
func (s *AuthService) EnsureStaff(ctx context.Context, login, password string, role model.Role) error {
	if !role.Staff() {
		return invalid("role", "%s is not a staff role", role)
	}
	_, err := s.create(ctx, login, password, login, "", role)
	if errors.Is(err, ErrLoginTaken) {
		return nil
	}
	return err
}

func (s *AuthService) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) create(ctx context.Context, login, password, name, phone string, role model.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Login:        login,
		Name:         name,
		Phone:        phone,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrLoginTaken
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}
