// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the current-user
// lookup, issuing a session token on success.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/cryptox"
	"github.com/dmitrijs2005/edupass/internal/server/auth"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/edupass/internal/validation"
	"github.com/google/uuid"
)

const (
	maxNameLength  = 100
	maxEmailLength = 254
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides account operations:
// - Register: create a user and sign them in
// - Login: verify email and password and mint a token
// - Me: load the caller's profile
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hasher      *cryptox.PasswordHasher
	now         func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, hasher *cryptox.PasswordHasher) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		now:         time.Now,
	}
}

// Register creates an account and returns it with a fresh token.
// Missing fields yield a validation error, a taken email
// common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = plainText(name)

	err := validation.New().
		Required("name", name).MaxLength("name", name, maxNameLength).
		Required("email", email).MaxLength("email", email, maxEmailLength).Email("email", email).
		Required("password", password).
		Err()
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err = repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %v", common.ErrorInternal, err)
	}

	return s.signIn(user)
}

// Login verifies email and password. Unknown email and wrong password both
// yield common.ErrInvalidCredentials after one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validation.New().Required("email", email).Required("password", password).Err(); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.signIn(user)
}

// Me returns the profile of userID.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: lookup user: %v", common.ErrorInternal, err)
	}
	return user, nil
}

func (s *UserService) signIn(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
