package token_test

import (
	"testing"
	"time"

	"github.com/dalemusser/scorehub/internal/app/system/token"
	"github.com/golang-jwt/jwt/v5"
)

func TestCreateParse_RoundTrip(t *testing.T) {
	m := token.New("test-secret", time.Minute)

	tok, err := m.Create("user@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	email, err := m.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("subject = %q, want %q", email, "user@example.com")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := token.New("secret-a", time.Minute).Create("user@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := token.New("secret-b", time.Minute).Parse(tok); err != token.ErrInvalidToken {
		t.Errorf("wrong secret: got %v, want ErrInvalidToken", err)
	}
}

func TestParse_Expired(t *testing.T) {
	m := token.New("test-secret", time.Minute)

	// Sign an already-expired token with the same secret and algorithm.
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "user@example.com",
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing expired token failed: %v", err)
	}

	if _, err := m.Parse(expired); err != token.ErrInvalidToken {
		t.Errorf("expired token: got %v, want ErrInvalidToken", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	m := token.New("test-secret", time.Minute)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Parse(tok); err != token.ErrInvalidToken {
			t.Errorf("Parse(%q): got %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestParse_MissingSubject(t *testing.T) {
	m := token.New("test-secret", time.Minute)

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := m.Parse(tok); err != token.ErrInvalidToken {
		t.Errorf("subjectless token: got %v, want ErrInvalidToken", err)
	}
}

func TestParse_RejectsUnsignedAlgorithm(t *testing.T) {
	m := token.New("test-secret", time.Minute)

	claims := jwt.RegisteredClaims{
		Subject:   "user@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := m.Parse(tok); err != token.ErrInvalidToken {
		t.Errorf("alg=none token: got %v, want ErrInvalidToken", err)
	}
}

func TestNew_ZeroTTLUsesDefault(t *testing.T) {
	if got := token.New("test-secret", 0).TTL(); got != token.DefaultTTL {
		t.Errorf("TTL = %v, want %v", got, token.DefaultTTL)
	}
}
