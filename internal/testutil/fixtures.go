package testutil

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/scorehub/internal/app/system/mailer"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RecorderMailer captures outbound mail instead of sending it.
type RecorderMailer struct {
	mu   sync.Mutex
	Sent []mailer.Email
	Err  error
}

// Send records the email, or fails with Err when set.
func (m *RecorderMailer) Send(e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

// Last returns the most recently recorded email.
func (m *RecorderMailer) Last(t *testing.T) mailer.Email {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		t.Fatal("no email was sent")
	}
	return m.Sent[len(m.Sent)-1]
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a standard, enabled user.
func (f *Fixtures) CreateUser(ctx context.Context, email, fullName string) models.User {
	return f.createUser(ctx, email, fullName, models.RoleStandard, false)
}

// CreateAdmin inserts an enabled admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, fullName string) models.User {
	return f.createUser(ctx, email, fullName, models.RoleAdmin, false)
}

// CreateDisabledUser inserts a disabled standard user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, email, fullName string) models.User {
	return f.createUser(ctx, email, fullName, models.RoleStandard, true)
}

func (f *Fixtures) createUser(ctx context.Context, email, fullName string, role models.Role, disabled bool) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		FullName:  fullName,
		Disabled:  disabled,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateSheet inserts a current sheet with a fresh lineage id for owner.
func (f *Fixtures) CreateSheet(ctx context.Context, ownerEmail, piece string, composers ...string) models.Sheet {
	f.t.Helper()

	if len(composers) == 0 {
		composers = []string{"Anonymous"}
	}
	now := time.Now().UTC()
	s := models.Sheet{
		ID:           primitive.NewObjectID(),
		OwnerEmail:   ownerEmail,
		SheetID:      uuid.NewString(),
		Piece:        piece,
		Composers:    composers,
		FileExt:      "pdf",
		Current:      true,
		PrevVersions: []models.PrevVersion{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("sheets").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test sheet: %v", err)
	}
	return s
}
