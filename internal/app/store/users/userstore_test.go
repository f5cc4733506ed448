package userstore_test

import (
	"testing"

	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/indexes"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/dalemusser/scorehub/internal/testutil"
)

func setup(t *testing.T) *userstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensuring indexes failed: %v", err)
	}

	return userstore.New(db)
}

func TestCreateAndGet(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Email:    "  New.User@Example.COM ",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Email != "new.user@example.com" {
		t.Errorf("email was not normalized: %q", created.Email)
	}
	if created.Role != models.RoleStandard {
		t.Errorf("default role = %q, want %q", created.Role, models.RoleStandard)
	}
	if created.ID.IsZero() {
		t.Error("created user has no id")
	}

	got, err := store.GetByEmail(ctx, "NEW.USER@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.FullName != "New User" {
		t.Errorf("FullName = %q, want %q", got.FullName, "New User")
	}
}

func TestGetByEmail_Missing(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); err != userstore.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com", FullName: "First"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{Email: "DUP@example.com", FullName: "Second"})
	if err != userstore.ErrDuplicateEmail {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestReplaceByEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Email: "user@example.com", FullName: "Before"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	upd := created
	upd.FullName = "After"
	upd.Disabled = true
	upd.Role = models.RoleAdmin
	upd.Email = "hijack@example.com" // identity comes from the path, not the body

	got, err := store.ReplaceByEmail(ctx, "user@example.com", upd)
	if err != nil {
		t.Fatalf("ReplaceByEmail failed: %v", err)
	}
	if got.Email != "user@example.com" {
		t.Errorf("email changed to %q; the stored email is immutable", got.Email)
	}
	if got.FullName != "After" || !got.Disabled || got.Role != models.RoleAdmin {
		t.Errorf("update was not applied: %+v", got)
	}
	if got.ID != created.ID {
		t.Error("replace changed the record id")
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Error("replace changed created_at")
	}
}

func TestReplaceByEmail_Missing(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.ReplaceByEmail(ctx, "nobody@example.com", models.User{FullName: "X"})
	if err != userstore.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteByEmail_Idempotent(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Email: "user@example.com", FullName: "To Delete"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteByEmail(ctx, "user@example.com"); err != nil {
		t.Fatalf("DeleteByEmail failed: %v", err)
	}
	if _, err := store.GetByEmail(ctx, "user@example.com"); err != userstore.ErrNotFound {
		t.Errorf("user still present after delete: %v", err)
	}

	// A second delete of the same email is a no-op.
	if err := store.DeleteByEmail(ctx, "user@example.com"); err != nil {
		t.Errorf("second DeleteByEmail failed: %v", err)
	}
}

func TestList_OrderedByEmail(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, email := range []string{"charlie@example.com", "alice@example.com", "bob@example.com"} {
		if _, err := store.Create(ctx, models.User{Email: email, FullName: "User"}); err != nil {
			t.Fatalf("Create(%s) failed: %v", email, err)
		}
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d users, want 3", len(got))
	}
	want := []string{"alice@example.com", "bob@example.com", "charlie@example.com"}
	for i, email := range want {
		if got[i].Email != email {
			t.Errorf("List[%d].Email = %q, want %q", i, got[i].Email, email)
		}
	}
}
