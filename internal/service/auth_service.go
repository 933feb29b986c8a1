package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// AuthService coordinates registration, login and logout.
type AuthService struct {
	store      repository.Store
	tokenMgr   *auth.TokenManager
	revoker    auth.Revoker
	bcryptCost int
	now        Clock
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
	Token   string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, store repository.Store, revoker auth.Revoker) *AuthService {
	return &AuthService{
		store:      store,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		revoker:    revoker,
		bcryptCost: cfg.BcryptCost,
		now:        utcNow,
	}
}

// RegisterUser creates a new non-admin account.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := requireFields(
		field{"name", name},
		field{"email", email},
		field{"password", password},
	); err != nil {
		return nil, err
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return s.createUser(ctx, strings.TrimSpace(name), normalized, password, false)
}

// Authenticate verifies credentials and issues a session token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := requireFields(field{"email", email}, field{"password", password}); err != nil {
		return nil, err
	}
	user, err := s.store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, storeError(err, "user")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	issued, err := s.tokenMgr.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{
		User: user,
		Session: &domain.Session{
			UserID:    user.ID,
			IsAdmin:   user.IsAdmin,
			TokenID:   issued.TokenID,
			ExpiresAt: issued.ExpiresAt,
		},
		Token: issued.Token,
	}, nil
}

// Logout revokes the session's token until it expires.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// CurrentUser loads the account behind a session.
func (s *AuthService) CurrentUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := s.store.Users().GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, storeError(err, "user")
	}
	return user, nil
}

// SeedAdmin creates the administrator account unless a live user already has
// the email. It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (*domain.User, bool, error) {
	if err := requireFields(field{"email", email}, field{"password", password}); err != nil {
		return nil, false, err
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.store.Users().GetByEmail(ctx, normalized)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, storeError(err, "user")
	}

	user, err := s.createUser(ctx, "Admin", normalized, password, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, isAdmin bool) (*domain.User, error) {
	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "user")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, storeError(err, "user")
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", apperrors.NewValidationError("invalid email", map[string]any{"email": email})
	}
	return trimmed, nil
}
