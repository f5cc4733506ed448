// internal/app/system/passcode/passcode.go

// Package passcode issues and verifies the short-lived credentials used for
// passwordless sign-in: 8-digit one-time codes and magic-link secrets. Only
// bcrypt hashes are stored, so reading the secret store is not enough to
// impersonate a user; the plaintext travels out-of-band by email.
package passcode

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the number of digits in a one-time code.
	CodeLength = 8
	// TokenBytes is the random-byte length of a magic-link secret.
	TokenBytes = 32
	// DefaultTTL is how long an issued credential stays valid.
	DefaultTTL = 5 * time.Minute
	// BcryptCost for hashing issued credentials.
	BcryptCost = 10

	// usedTTL is the residual expiry applied after a successful
	// verification. The store contract is put/get/expire only, so the entry
	// is expired rather than deleted; a racing second verify can still win
	// inside this window.
	usedTTL = time.Second
)

// Service issues and verifies one-time codes and magic-link secrets.
type Service struct {
	store   *secrets.Store
	ttl     time.Duration
	baseURL string
}

// New creates a Service. If ttl is zero or negative, DefaultTTL is used.
// baseURL is the externally visible origin used to compose magic links.
func New(store *secrets.Store, ttl time.Duration, baseURL string) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, baseURL: baseURL}
}

// TTL returns the credential lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// IssueOTP generates a one-time code for email, stores its hash with the
// configured TTL, and returns the plaintext for delivery. Issuing replaces
// any previous code for the same email.
func (s *Service) IssueOTP(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, secrets.NamespaceOTP, email, code); err != nil {
		return "", err
	}
	return code, nil
}

// IssueMagicLink generates a magic-link secret for email, stores its hash,
// and returns the full sign-in URL: {base}{mount}?secret=...[&next=...].
func (s *Service) IssueMagicLink(ctx context.Context, email, next, mount string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.put(ctx, secrets.NamespaceMagic, email, token); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("secret", token)
	if next != "" {
		q.Set("next", next)
	}
	return s.baseURL + mount + "?" + q.Encode(), nil
}

// VerifyOTP checks a presented code against the stored hash. An absent or
// expired entry fails closed. On success the entry's TTL collapses so the
// code cannot be replayed; on failure the entry is left untouched and
// retries within the original window remain possible.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	return s.verify(ctx, secrets.NamespaceOTP, email, code)
}

// VerifyMagic checks a presented magic-link secret, with the same single-use
// policy as VerifyOTP.
func (s *Service) VerifyMagic(ctx context.Context, email, secret string) (bool, error) {
	return s.verify(ctx, secrets.NamespaceMagic, email, secret)
}

func (s *Service) put(ctx context.Context, namespace, email, plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash credential: %w", err)
	}
	return s.store.Put(ctx, namespace, email, string(hash), s.ttl)
}

func (s *Service) verify(ctx context.Context, namespace, email, presented string) (bool, error) {
	hash, err := s.store.Get(ctx, namespace, email)
	if err == secrets.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) != nil {
		return false, nil
	}
	if err := s.store.SetTTL(ctx, namespace, email, usedTTL); err != nil {
		return false, err
	}
	return true, nil
}

// generateCode returns CodeLength uniform random digits.
func generateCode() (string, error) {
	digits := make([]byte, CodeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// generateToken returns a URL-safe random secret for magic links.
func generateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
