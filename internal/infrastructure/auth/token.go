// Package auth issues and verifies the HMAC-signed bearer tokens that guard
// the HTTP API.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// Principal is the authenticated caller extracted from a token.
type Principal struct {
	Subject  string
	TenantID int64
	Roles    []string
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// TokenIssuer mints tokens.  Used by the CLI seed command and tests.
type TokenIssuer interface {
	Issue(subject string, tenantID int64, roles []string, ttl time.Duration) (string, error)
}

type claims struct {
	TenantID int64    `json:"tenant_id"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

type hmacTokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService builds the HMAC-SHA256 issuer/verifier from configuration.
func NewTokenService(cfg config.AuthConfig) (*hmacTokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New(errors.ErrCodeValidation, "auth secret is required")
	}
	return &hmacTokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.AccessTokenTTL,
	}, nil
}

func (s *hmacTokenService) Issue(subject string, tenantID int64, roles []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TenantID: tenantID,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to sign token")
	}
	return signed, nil
}

func (s *hmacTokenService) Verify(_ context.Context, raw string) (*Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New(errors.ErrCodeUnauthorized, "unexpected signing method")
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token")
	}
	return &Principal{Subject: c.Subject, TenantID: c.TenantID, Roles: c.Roles}, nil
}

// NopVerifier accepts every request as an administrator.  Only wired when
// auth is explicitly disabled in configuration.
type NopVerifier struct{}

func (NopVerifier) Verify(context.Context, string) (*Principal, error) {
	return &Principal{Subject: "anonymous", Roles: []string{string(RoleAdmin)}}, nil
}

// NewVerifier selects the verifier implied by configuration.
func NewVerifier(cfg config.AuthConfig) (TokenVerifier, error) {
	if cfg.Disabled {
		return NopVerifier{}, nil
	}
	return NewTokenService(cfg)
}
