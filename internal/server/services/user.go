// Package services contains server-side business logic. This file implements
// UserService, the authenticator: registration, login, bearer token
// validation and the operator-only admin bootstrap.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

const bearerScheme = "bearer"

// AuthResult is a user together with a freshly issued session token.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenManager
	logger      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) (*UserService, error) {
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      auth.NewTokenManager(cfg.SecretKey, cfg.TokenValidityDuration),
		logger:      logger.With("module", "user_service"),
	}, nil
}

// Tokens exposes the token manager, mainly so tests can control its clock.
func (s *UserService) Tokens() *auth.TokenManager {
	return s.tokens
}

// Register creates a regular (never admin) user and logs it in.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrValidationCredentials
	}

	repo := s.repomanager.Users()

	// cheap check first so duplicates do not cost a bcrypt round
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrDuplicateIdentity
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: digest,
		DisplayName:  strings.TrimSpace(displayName),
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, common.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = common.NormalizeEmail(email)

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error looking up user: %w", err)
		}
		// burn the same time as a real comparison
		if _, err := s.hasher.Verify(ctx, password, ""); err != nil {
			return nil, fmt.Errorf("error verifying password: %w", err)
		}
		return nil, common.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user)
}

// Authenticate resolves a bearer value (raw token or "Bearer <token>") to
// the identity currently stored for its subject.
func (s *UserService) Authenticate(ctx context.Context, bearer string) (models.Identity, error) {
	token := strings.TrimSpace(bearer)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, bearerScheme) {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, bearerScheme) {
		token = ""
	}
	if token == "" {
		return models.Identity{}, common.ErrMissingToken
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return models.Identity{}, err
	}

	user, err := s.repomanager.Users().GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Identity{}, common.ErrUnknownSubject
		}
		return models.Identity{}, fmt.Errorf("error loading user: %w", err)
	}

	return user.Identity(), nil
}

// EnsureAdmin creates email as an admin, or promotes the existing account
// without touching its password. It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, displayName string) (*models.User, bool, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, common.ErrValidationCredentials
	}

	digest, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	user, created, err := s.repomanager.Users().PromoteOrCreate(ctx, &models.User{
		Email:        email,
		PasswordHash: digest,
		DisplayName:  strings.TrimSpace(displayName),
	})
	if err != nil {
		return nil, false, fmt.Errorf("error promoting user: %w", err)
	}

	s.logger.Info(ctx, "admin ensured", "user_id", user.ID, "created", created)
	return user, created, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
