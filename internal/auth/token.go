package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/shared"
)

// Claims is the ephemeral credential payload extracted from a signed token.
// The role is a hint used only for cheap edge classification; authorization
// always re-reads the durable identity record. The id claim is
// informational; email is the authoritative lookup key.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens with a shared secret.
// It is a pure function of (token, secret); no storage access.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService. An empty secret is a
// configuration error and refuses to start rather than failing open later.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret must be provided")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL exposes the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue mints a signed credential for a freshly authenticated identity.
func (s *TokenService) Issue(id int64, email string, role identity.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:  email,
		UserID: strconv.FormatInt(id, 10),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a raw token and extracts its claims. A literal Bearer
// prefix and surrounding whitespace are stripped first since clients mix
// cookie and header conventions. A structurally valid token without an
// email claim is rejected, never treated as anonymous.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer"))
	if raw == "" {
		return nil, shared.ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, shared.ErrInvalidCredential
	}
	if strings.TrimSpace(claims.Email) == "" {
		return nil, fmt.Errorf("%w: email claim missing", shared.ErrInvalidCredential)
	}
	return claims, nil
}
