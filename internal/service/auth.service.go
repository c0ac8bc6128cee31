package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duccv/go-product-catalog/internal/apperror"
	"github.com/duccv/go-product-catalog/internal/model"
	"github.com/duccv/go-product-catalog/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles sign-up, sign-in, logout and per-request authentication.
type AuthService struct {
	users  repository.UserRepository
	ledger repository.RevocationLedger
	tokens *TokenService
	cost   int

	// compared against when the identity is unknown so both paths pay for a bcrypt round
	dummyHash []byte
}

func NewAuthService(
	users repository.UserRepository,
	ledger repository.RevocationLedger,
	tokens *TokenService,
	bcryptCost int,
) (*AuthService, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt setup failed: %w", err)
	}
	return &AuthService{
		users:     users,
		ledger:    ledger,
		tokens:    tokens,
		cost:      bcryptCost,
		dummyHash: dummy,
	}, nil
}

// Register creates the account and signs it in. When only an email is given
// it doubles as the username.
func (s *AuthService) Register(ctx context.Context, reg model.Registration) (*model.User, string, error) {
	username := strings.TrimSpace(reg.Username)
	email := strings.TrimSpace(reg.Email)
	if username == "" {
		username = email
	}
	if username == "" {
		return nil, "", apperror.Validation("username or email is required")
	}
	if reg.Password == "" {
		return nil, "", apperror.Validation("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", apperror.Validation("password is too long")
		}
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(reg.Name),
		Gender:       strings.TrimSpace(reg.Gender),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	zap.L().Info("User registered", zap.Int64("userId", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

// Login checks the password of identity (username or email).
func (s *AuthService) Login(ctx context.Context, identity, password string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", apperror.Validation("username or email is required")
	}
	if password == "" {
		return "", apperror.Validation("password is required")
	}

	user, err := s.users.FindByIdentity(ctx, identity)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return "", err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return "", err
	}
	zap.L().Debug("User logged in", zap.Int64("userId", user.ID))
	return token, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *model.TokenClaims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return apperror.ErrInvalidSignature
	}
	return s.ledger.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authenticate resolves a bearer token to its user. The token must verify,
// must not be revoked and its subject must still exist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, *model.TokenClaims, error) {
	if token == "" {
		return nil, nil, apperror.ErrMissingAuth
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.ledger.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, nil, apperror.ErrTokenRevoked
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperror.ErrInvalidSignature, err)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil, apperror.ErrUnknownSubject
		}
		return nil, nil, err
	}
	return user, claims, nil
}
