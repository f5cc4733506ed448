package secrets_test

import (
	"testing"
	"time"

	"github.com/dalemusser/scorehub/internal/app/store/secrets"
	"github.com/dalemusser/scorehub/internal/testutil"
)

func TestPutGet(t *testing.T) {
	store, _ := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, secrets.NamespaceOTP, "user@example.com", "hash-value", time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, secrets.NamespaceOTP, "user@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "hash-value" {
		t.Errorf("Get = %q, want %q", got, "hash-value")
	}
}

func TestGet_Missing(t *testing.T) {
	store, _ := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, secrets.NamespaceOTP, "nobody@example.com"); err != secrets.ErrNotFound {
		t.Errorf("Get on missing key: got %v, want ErrNotFound", err)
	}
}

func TestNamespaceIsolation(t *testing.T) {
	store, _ := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, secrets.NamespaceOTP, "user@example.com", "otp-hash", time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := store.Get(ctx, secrets.NamespaceMagic, "user@example.com"); err != secrets.ErrNotFound {
		t.Errorf("other namespace: got %v, want ErrNotFound", err)
	}
}

func TestPut_ReplacesAndResetsExpiry(t *testing.T) {
	store, _ := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, secrets.NamespaceOTP, "user@example.com", "first", time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, secrets.NamespaceOTP, "user@example.com", "second", time.Minute); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := store.Get(ctx, secrets.NamespaceOTP, "user@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "second" {
		t.Errorf("Get = %q, want %q", got, "second")
	}
}

func TestExpiry(t *testing.T) {
	store, srv := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, secrets.NamespaceMagic, "user@example.com", "hash", time.Minute); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, secrets.NamespaceMagic, "user@example.com"); err != secrets.ErrNotFound {
		t.Errorf("after expiry: got %v, want ErrNotFound", err)
	}
}

func TestSetTTL_Collapses(t *testing.T) {
	store, srv := testutil.SetupSecrets(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Put(ctx, secrets.NamespaceOTP, "user@example.com", "hash", time.Hour); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.SetTTL(ctx, secrets.NamespaceOTP, "user@example.com", time.Second); err != nil {
		t.Fatalf("SetTTL failed: %v", err)
	}

	srv.FastForward(2 * time.Second)

	if _, err := store.Get(ctx, secrets.NamespaceOTP, "user@example.com"); err != secrets.ErrNotFound {
		t.Errorf("after collapsed TTL: got %v, want ErrNotFound", err)
	}
}
