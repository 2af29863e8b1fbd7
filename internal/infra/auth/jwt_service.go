// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"miniblog/config"
	"miniblog/internal/domain/entity"
	"miniblog/internal/domain/service"
	"miniblog/internal/errors"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// accessClaims is the payload of an access token: {sub, email, role}.
type accessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// refreshClaims is the payload of a refresh token: {sub, jti}.
type refreshClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret  []byte        // Secret key for signing access tokens.
	refreshSecret []byte        // Secret key for signing refresh tokens.
	accessTTL     time.Duration // Time-to-live for access tokens.
	refreshTTL    time.Duration // Time-to-live for refresh tokens.
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}
	if cfg.SecretKey.Access == cfg.SecretKey.Refresh {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.Auth == nil || cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be configured")
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     cfg.Auth.AccessTokenTTL,
		refreshTTL:    cfg.Auth.RefreshTokenTTL,
		now:           time.Now,
	}, nil
}

// IssueAccessToken signs a short-lived token for the given identity.
func (s *jwtService) IssueAccessToken(identity entity.Identity) (string, error) {
	now := s.now()
	claims := accessClaims{
		Email: identity.Email,
		Role:  identity.Role.String(),
		Type:  tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign access token")
	}

	return signed, nil
}

// IssueRefreshToken signs a long-lived token with a fresh jti and returns the digest to persist.
func (s *jwtService) IssueRefreshToken(userID uuid.UUID) (*service.IssuedRefreshToken, error) {
	now := s.now()
	tokenID := uuid.New()
	expiresAt := jwt.NewNumericDate(now.Add(s.refreshTTL))

	claims := refreshClaims{
		Type: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        tokenID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, errors.Wrap(err, "sign refresh token")
	}

	return &service.IssuedRefreshToken{
		Token:     signed,
		TokenID:   tokenID,
		Digest:    s.HashToken(signed),
		ExpiresAt: expiresAt.Time,
	}, nil
}

// VerifyAccessToken checks the signature and expiry of an access token and returns its identity.
func (s *jwtService) VerifyAccessToken(token string) (*entity.Identity, error) {
	claims := &accessClaims{}
	if err := s.parse(token, claims, s.accessSecret); err != nil {
		return nil, err
	}
	if claims.Type != tokenTypeAccess {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "unexpected token type")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "malformed subject")
	}

	role := entity.Role(claims.Role)
	if !role.IsValid() {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "unknown role")
	}

	return &entity.Identity{UserID: userID, Email: claims.Email, Role: role}, nil
}

// ParseRefreshToken checks the signature and expiry of a refresh token and returns its claims.
func (s *jwtService) ParseRefreshToken(token string) (*service.RefreshClaims, error) {
	claims := &refreshClaims{}
	if err := s.parse(token, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	if claims.Type != tokenTypeRefresh {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "unexpected token type")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "malformed subject")
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, errors.WithMessage(service.ErrTokenInvalid, "malformed jti")
	}

	return &service.RefreshClaims{
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashToken returns the hex SHA-256 digest of the full token string.
func (s *jwtService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

// RefreshTokenTTL returns the configured duration for refresh tokens.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) parse(token string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return errors.WithMessage(service.ErrTokenInvalid, err.Error())
	}

	return nil
}
