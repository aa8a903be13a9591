package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/martkit/user-service/internal/crypto"
	"github.com/martkit/user-service/internal/model"
	"github.com/martkit/user-service/internal/repository"
)

var (
	ErrNameRequired     = errors.New("name, email and password are required")
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailTaken       = errors.New("user with this email already exists")
	ErrAccountNotFound  = errors.New("user not found")
	ErrWrongPassword    = errors.New("password not matched")
)

// AccountStore is the account persistence surface the auth service needs.
type AccountStore interface {
	Create(ctx context.Context, account *model.Account) error
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id int64) (*model.Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// ProfileRowCreator creates the empty profile row attempted at registration.
type ProfileRowCreator interface {
	CreateEmpty(ctx context.Context, userID int64) error
}

// AuthService orchestrates registration, login and password changes.
type AuthService struct {
	accounts  AccountStore
	profiles  ProfileRowCreator
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountStore, profiles ProfileRowCreator, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		accounts:  accounts,
		profiles:  profiles,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new account and returns its ID. An empty profile row
// is created best-effort: its failure is logged but does not fail the
// registration.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (int64, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return 0, ErrNameRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return 0, err
	}

	account := &model.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}

	if err := s.profiles.CreateEmpty(ctx, account.ID); err != nil {
		slog.Error("failed to create profile row", "user_id", account.ID, "error", err)
	}

	return account.ID, nil
}

// Login verifies credentials and returns a signed session token bound to
// the account's id and name at this moment.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	if req.Email == "" {
		return "", ErrEmailRequired
	}
	if req.Password == "" {
		return "", ErrPasswordRequired
	}

	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", ErrAccountNotFound
		}
		return "", err
	}

	match, err := crypto.VerifyPassword(req.Password, account.PasswordHash)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrWrongPassword
	}

	return crypto.GenerateToken(account.ID, account.Name, s.jwtSecret, s.jwtExpiry)
}

// ChangePassword replaces the stored hash after verifying the old
// password. Previously issued session tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req model.ChangePasswordRequest) error {
	if req.OldPassword == "" || req.NewPassword == "" {
		return ErrPasswordRequired
	}

	account, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	match, err := crypto.VerifyPassword(req.OldPassword, account.PasswordHash)
	if err != nil {
		return err
	}
	if !match {
		return ErrWrongPassword
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.accounts.UpdatePasswordHash(ctx, userID, hash)
}
