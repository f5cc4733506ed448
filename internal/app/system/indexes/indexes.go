// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureSheets(ctx, db); err != nil {
		problems = append(problems, "sheets: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureUsers: the unique index on email is the enforcement boundary for
// duplicate registration.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email").SetUnique(true),
		},
	})
	return err
}

// ensureSheets: sheet_id is unique within an owner; list endpoints sort and
// filter within the owner partition; the text index backs search.
func ensureSheets(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("sheets").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_email", Value: 1},
				{Key: "sheet_id", Value: 1},
			},
			Options: options.Index().SetName("idx_sheets_owner_sheet").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "owner_email", Value: 1},
				{Key: "current", Value: 1},
			},
			Options: options.Index().SetName("idx_sheets_owner_current"),
		},
		{
			Keys:    bson.D{{Key: "instruments", Value: 1}},
			Options: options.Index().SetName("idx_sheets_instruments"),
		},
		{
			Keys:    bson.D{{Key: "composers", Value: 1}},
			Options: options.Index().SetName("idx_sheets_composers"),
		},
		{
			Keys: bson.D{
				{Key: "piece", Value: "text"},
				{Key: "catalog_number", Value: "text"},
				{Key: "composers", Value: "text"},
				{Key: "instruments", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().SetName("idx_sheets_text"),
		},
	})
	return err
}
