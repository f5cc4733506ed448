// internal/app/system/token/token.go

// Package token mints and verifies the signed session tokens carried in the
// session cookie. Tokens are stateless: nothing is stored server-side, so a
// token is valid exactly as long as its signature checks out and it has not
// expired.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when the manager is constructed with a zero TTL.
const DefaultTTL = 30 * time.Minute

// ErrInvalidToken covers every rejection: bad signature, wrong algorithm,
// expiry, malformed payload, or a missing subject. Callers treat all of
// them as an unauthenticated request.
var ErrInvalidToken = errors.New("invalid or expired session token")

// Manager signs and parses session tokens with a server-held HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// New creates a Manager. If ttl is zero or negative, DefaultTTL is used.
func New(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create mints an HS256 token with subject=email expiring after the
// configured TTL.
func (m *Manager) Create(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies signature and expiry and returns the subject email.
func (m *Manager) Parse(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
