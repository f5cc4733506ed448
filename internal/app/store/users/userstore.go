package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scorehub/internal/app/system/normalize"
	"github.com/dalemusser/scorehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no user matches the given email.
	ErrNotFound = errors.New("no user with that email")
	// ErrDuplicateEmail is returned when creating a user whose email is taken.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "ADMIN"|"STANDARD"`)
)

// Store is the user directory: CRUD over user records keyed by unique email.
// Users are global; nothing here is partitioned by owner.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// A duplicate email fails with ErrDuplicateEmail; the unique index on email
// is the real enforcement boundary, the pre-insert check in the handler only
// exists for a friendlier error message.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.FullName = normalize.Name(u.FullName)
	if u.Role == "" {
		u.Role = models.RoleStandard
	}
	if !u.Role.IsValid() {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ReplaceByEmail fully replaces the record for email, preserving the stored
// identity (_id, email, created_at). Returns the stored result.
func (s *Store) ReplaceByEmail(ctx context.Context, email string, upd models.User) (*models.User, error) {
	current, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if upd.Role != "" && !upd.Role.IsValid() {
		return nil, errBadRole
	}
	if upd.Role == "" {
		upd.Role = current.Role
	}

	upd.ID = current.ID
	upd.Email = current.Email
	upd.FullName = normalize.Name(upd.FullName)
	upd.CreatedAt = current.CreatedAt
	upd.UpdatedAt = time.Now().UTC()

	var out models.User
	err = s.c.FindOneAndReplace(ctx, bson.M{"_id": current.ID}, upd,
		options.FindOneAndReplace().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteByEmail removes the user record. Deleting an absent email is a
// no-op, not an error.
func (s *Store) DeleteByEmail(ctx context.Context, email string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"email": normalize.Email(email)})
	return err
}

// List returns every user, ordered by email.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
