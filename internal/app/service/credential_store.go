package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamestore/internal/common"
	"gamestore/internal/common/security"
	"gamestore/internal/domain/model"
	"gamestore/internal/domain/repository"
)

// CredentialStore owns user records and everything secret about them:
// password hashes and one-time verification and reset tokens.
type CredentialStore struct {
	users  repository.UserRepository
	hasher *security.PasswordHasher
	now    func() time.Time
}

func NewCredentialStore(users repository.UserRepository, hasher *security.PasswordHasher) *CredentialStore {
	return &CredentialStore{users: users, hasher: hasher, now: time.Now}
}

type NewUser struct {
	Username string
	Email    string
	Password string
	Name     *string
	IsAdmin  bool
}

// Create hashes the password and stores the user. Duplicate usernames or
// emails come back as ErrConflict.
func (s *CredentialStore) Create(ctx context.Context, in NewUser) (*model.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		IsAdmin:      in.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *CredentialStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *CredentialStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *CredentialStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *CredentialStore) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// VerifyPassword returns the live user named username if plaintext matches
// the stored hash, and nil otherwise.
func (s *CredentialStore) VerifyPassword(ctx context.Context, username, plaintext string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, plaintext) {
		return nil, nil
	}
	return user, nil
}

// SetEmailVerifyToken replaces the user's verification token with a fresh
// one valid for ttl and returns it.
func (s *CredentialStore) SetEmailVerifyToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token, err := security.NewOneTimeToken()
	if err != nil {
		return "", err
	}
	if err := s.users.SetEmailVerifyToken(ctx, userID, token, s.now().Add(ttl)); err != nil {
		return "", err
	}
	return token, nil
}

func (s *CredentialStore) ConsumeEmailVerifyToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, common.ErrInvalidOrExpiredToken
	}
	return s.users.ConsumeEmailVerifyToken(ctx, token, s.now())
}

func (s *CredentialStore) SetResetToken(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token, err := security.NewOneTimeToken()
	if err != nil {
		return "", err
	}
	if err := s.users.SetResetToken(ctx, userID, token, s.now().Add(ttl)); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumePasswordReset sets a new password for the owner of an unexpired
// reset token. The token cannot be used twice.
func (s *CredentialStore) ConsumePasswordReset(ctx context.Context, token, newPassword string) (*model.User, error) {
	if token == "" {
		return nil, common.ErrInvalidOrExpiredToken
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	return s.users.ConsumeResetToken(ctx, token, hash, s.now())
}

func (s *CredentialStore) Update(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	if upd.Empty() {
		return nil, common.NewValidationError("body", "At least one field must be provided")
	}
	return s.users.Update(ctx, id, upd)
}

// SoftDelete hides the user from every read. Deleting twice reports
// ErrNotFound and keeps the first deletion time.
func (s *CredentialStore) SoftDelete(ctx context.Context, id int64) error {
	return s.users.SoftDelete(ctx, id, s.now())
}
