package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the user directory: it verifies credentials and provisions accounts.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Authenticate checks the credentials and returns the matching principal.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (auth.Principal, error) {
	name := strings.TrimSpace(username)
	if name == "" || password == "" {
		return auth.Anonymous(), ErrInvalidCredentials
	}

	var user db.User
	if err := s.db.WithContext(ctx).Where("username = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Anonymous(), ErrInvalidCredentials
		}
		return auth.Anonymous(), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return auth.Anonymous(), ErrInvalidCredentials
	}

	return auth.Principal{UserID: user.ID, Username: user.Username}, nil
}

// Lookup resolves a session user id against the directory. A deleted user
// yields auth.ErrUnknownPrincipal.
func (s *UserService) Lookup(ctx context.Context, userID uint) (auth.Principal, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Anonymous(), auth.ErrUnknownPrincipal
		}
		return auth.Anonymous(), err
	}
	return auth.Principal{UserID: user.ID, Username: user.Username}, nil
}

// EnsureUser creates the user when missing and returns the stored account.
func (s *UserService) EnsureUser(username, password string) (*db.User, error) {
	user, err := db.EnsureUser(s.db, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidInput
	}
	return user, nil
}
