package profile_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/scorehub/internal/app/features/profile"
	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "player@example.com", "Session Player")

	h := profile.NewHandler(userstore.New(db), zap.NewNop())

	req := auth.WithUser(httptest.NewRequest("GET", "/me", nil), &user)
	rec := httptest.NewRecorder()
	h.ServeMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Session Player") {
		t.Errorf("body = %q, want the user's name", rec.Body.String())
	}
}

func TestServeUpdateMe_ChangesNameOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "player@example.com", "Before")

	users := userstore.New(db)
	h := profile.NewHandler(users, zap.NewNop())

	body := strings.NewReader(`{"full_name":"After"}`)
	req := auth.WithUser(httptest.NewRequest("PUT", "/me", body), &user)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeUpdateMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	got, err := users.GetByEmail(ctx, "player@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.FullName != "After" {
		t.Errorf("FullName = %q, want %q", got.FullName, "After")
	}
	if got.Role != user.Role || got.Disabled != user.Disabled {
		t.Error("self-update changed fields beyond the display name")
	}
}

func TestServeUpdateMe_RejectsUnknownFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	user := f.CreateUser(ctx, "player@example.com", "Player")

	h := profile.NewHandler(userstore.New(db), zap.NewNop())

	// Promoting yourself through /me is not a thing.
	body := strings.NewReader(`{"full_name":"x","role":"ADMIN"}`)
	req := auth.WithUser(httptest.NewRequest("PUT", "/me", body), &user)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeUpdateMe(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
