package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andeslogistics/dock-scheduler/internal/errs"
	"github.com/andeslogistics/dock-scheduler/internal/model"
	"github.com/andeslogistics/dock-scheduler/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthServicer interface {
	Register(ctx context.Context, name, username, password string, role model.Role) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
}

type AuthService struct {
	users store.UserStore
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Register(ctx context.Context, name, username, password string, role model.Role) (*model.User, error) {
	if name == "" || username == "" || password == "" {
		return nil, errs.Validation("name/username/password", "are required")
	}
	if !role.Valid() {
		return nil, errs.Validation("role", "is unknown")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Name:     name,
		Username: username,
		Password: string(hashed),
		Role:     role,
		Active:   true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the credentials. The same error comes back for an unknown
// user, a bad password and a deactivated account.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active {
		return nil, errs.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errs.ErrInvalidCredentials
	}
	return u, nil
}
