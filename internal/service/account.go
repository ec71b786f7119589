package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/webgames/accounts-go/internal/crypto"
	"github.com/webgames/accounts-go/internal/model"
	"github.com/webgames/accounts-go/internal/repository"
	"github.com/webgames/accounts-go/internal/validation"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrDuplicateUser         = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrUnauthorizedOperation = errors.New("unauthorized operation")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrInvalidToken          = errors.New("invalid or expired token")
)

// UserStore is the persistence the account service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteByID(ctx context.Context, id int64) error
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer mints and verifies bearer tokens.
type TokenIssuer interface {
	Issue(subject string, extra map[string]any) (string, error)
	Verify(token string) (*crypto.Claims, error)
}

// AccountService handles signup, sign-in and self-service account changes.
type AccountService struct {
	store     UserStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator *validation.Validator
	now       func() time.Time
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore, hasher PasswordHasher, tokens TokenIssuer, v *validation.Validator) *AccountService {
	return &AccountService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		validator: v,
		now:       time.Now,
	}
}

// Signup registers a new player account and returns a token for it.
// Uniqueness is checked before field validation so a taken email or
// username always reports ErrDuplicateUser, whatever the other fields hold.
// Malformed payloads therefore still cost two existence queries.
func (s *AccountService) Signup(ctx context.Context, req model.SignupRequest) (model.AuthResponse, error) {
	taken, err := s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("checking email: %w", err)
	}
	if taken {
		return model.AuthResponse{}, ErrDuplicateUser
	}

	taken, err = s.store.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("checking username: %w", err)
	}
	if taken {
		return model.AuthResponse{}, ErrDuplicateUser
	}

	if err := s.validator.Signup(req); err != nil {
		return model.AuthResponse{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RolePlayer,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return model.AuthResponse{}, ErrDuplicateUser
		}
		return model.AuthResponse{}, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return s.issue(user)
}

// SignIn checks the credentials and returns a token once the password matches.
func (s *AccountService) SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResponse, error) {
	if err := s.validator.SignIn(req); err != nil {
		return model.AuthResponse{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	user, err := s.lookupByEmail(ctx, req.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(user)
}

// DeleteUser removes the account registered under email. Only the owner may
// delete it.
func (s *AccountService) DeleteUser(ctx context.Context, principal model.Principal, email string) error {
	user, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return err
	}
	if principal.Email != user.Email {
		return ErrUnauthorizedOperation
	}

	if err := s.store.DeleteByID(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deleting user: %w", err)
	}

	slog.InfoContext(ctx, "user deleted", "user_id", user.ID)
	return nil
}

// UpdatePassword replaces the password of the principal's own account and
// returns a fresh token.
func (s *AccountService) UpdatePassword(ctx context.Context, principal model.Principal, req model.UpdatePasswordRequest) (model.AuthResponse, error) {
	if utf8.RuneCountInString(req.NewPassword) < validation.MinPasswordLength {
		return model.AuthResponse{}, ErrPasswordTooShort
	}
	if len(req.NewPassword) > validation.MaxPasswordLength {
		return model.AuthResponse{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidArgument, validation.MaxPasswordLength)
	}

	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, fmt.Errorf("looking up user: %w", err)
	}
	if principal.Email != user.Email {
		return model.AuthResponse{}, ErrUnauthorizedOperation
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hashing password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, fmt.Errorf("updating password: %w", err)
	}

	slog.InfoContext(ctx, "password updated", "user_id", user.ID)
	return s.issue(user)
}

// GetProfileByUsername returns the public profile of username, matched
// case-insensitively.
func (s *AccountService) GetProfileByUsername(ctx context.Context, username string) (model.UserProfile, error) {
	if strings.TrimSpace(username) == "" {
		return model.UserProfile{}, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}

	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserProfile{}, ErrUserNotFound
		}
		return model.UserProfile{}, fmt.Errorf("looking up user: %w", err)
	}

	return model.UserProfile{Username: user.Username}, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *AccountService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	user, err := s.store.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.WarnContext(ctx, "resolving token subject failed", "error", err)
		}
		return model.Principal{}, ErrInvalidToken
	}

	if !claims.ValidFor(user.Username, s.now()) {
		return model.Principal{}, ErrInvalidToken
	}

	return model.PrincipalOf(user), nil
}

func (s *AccountService) lookupByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

func (s *AccountService) issue(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.Username, map[string]any{"role": string(user.Role)})
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issuing token: %w", err)
	}
	return model.AuthResponse{Token: token}, nil
}
