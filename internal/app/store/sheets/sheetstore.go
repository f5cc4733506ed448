// internal/app/store/sheets/sheetstore.go

// Package sheetstore manages the immutable version chains of sheet rows.
// An edit never mutates a row in place: the old head is flipped to
// current=false and a brand-new row with a fresh sheet_id becomes the head,
// carrying the full history in prev_versions. Every query here is scoped by
// owner_email; a sheet is never visible across owners.
package sheetstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/scorehub/internal/app/system/normalize"
	"github.com/dalemusser/scorehub/internal/app/system/paging"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no sheet matches (owner_email, sheet_id).
	ErrNotFound = errors.New("no sheet with that id")
	// ErrDuplicateSheetID is returned when an update reuses the replaced
	// row's sheet_id. A new version must get a fresh identifier; hitting
	// this is a programming-contract violation, not a user error.
	ErrDuplicateSheetID = errors.New("new version must have a new sheet id")
	// ErrBadField is returned when a related query names an unknown field.
	ErrBadField = errors.New("unknown related field")
)

// Store persists sheet rows and their version chains.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sheets")}
}

// Clean normalizes user-supplied fields in place: tags are lower-cased with
// empty entries collapsed away, list fields lose empty entries, and free
// text is stripped of markup.
func Clean(s *models.Sheet) {
	s.OwnerEmail = normalize.Email(s.OwnerEmail)
	s.Piece = normalize.Name(s.Piece)
	s.CatalogNumber = normalize.Name(s.CatalogNumber)
	s.Genre = normalize.Name(s.Genre)
	s.Type = normalize.Name(s.Type)
	s.Tags = normalize.Tags(s.Tags)
	s.Composers = normalize.Strings(s.Composers)
	s.Instruments = normalize.Strings(s.Instruments)
}

// Create persists s as a new lineage: current=true, no history.
func (st *Store) Create(ctx context.Context, s models.Sheet) (models.Sheet, error) {
	Clean(&s)
	s.ID = primitive.NewObjectID()
	s.Current = true
	s.PrevVersions = []models.PrevVersion{}

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	if _, err := st.c.InsertOne(ctx, s); err != nil {
		return models.Sheet{}, err
	}
	return s, nil
}

// GetByID loads one row by (owner_email, sheet_id), current or historical.
func (st *Store) GetByID(ctx context.Context, ownerEmail, sheetID string) (*models.Sheet, error) {
	var s models.Sheet
	err := st.c.FindOne(ctx, bson.M{
		"owner_email": normalize.Email(ownerEmail),
		"sheet_id":    sheetID,
	}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CurrentReferencing finds the owner's current row whose history references
// sheetID, i.e. the head of the lineage a historical row belongs to.
func (st *Store) CurrentReferencing(ctx context.Context, ownerEmail, sheetID string) (*models.Sheet, error) {
	var s models.Sheet
	err := st.c.FindOne(ctx, bson.M{
		"owner_email":            normalize.Email(ownerEmail),
		"current":                true,
		"prev_versions.sheet_id": sheetID,
	}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update supersedes oldCurrent with newSheet: the old row is flipped to
// current=false and replaced, and the new row becomes the lineage head with
// prev_versions = [(old.sheet_id, now)] + old.prev_versions.
//
// newSheet must carry a fresh sheet_id; reusing the old one would make the
// chain self-referential and fails with ErrDuplicateSheetID.
func (st *Store) Update(ctx context.Context, oldCurrent models.Sheet, newSheet models.Sheet) (models.Sheet, error) {
	if newSheet.SheetID == oldCurrent.SheetID {
		return models.Sheet{}, ErrDuplicateSheetID
	}

	now := time.Now().UTC()

	oldCurrent.Current = false
	oldCurrent.UpdatedAt = now
	Clean(&oldCurrent)
	err := st.c.FindOneAndReplace(ctx, bson.M{
		"owner_email": oldCurrent.OwnerEmail,
		"sheet_id":    oldCurrent.SheetID,
	}, oldCurrent).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Sheet{}, ErrNotFound
		}
		return models.Sheet{}, err
	}

	Clean(&newSheet)
	newSheet.ID = primitive.NewObjectID()
	newSheet.Current = true
	newSheet.PrevVersions = append(
		[]models.PrevVersion{{SheetID: oldCurrent.SheetID, ReplacedAt: now}},
		oldCurrent.PrevVersions...,
	)
	newSheet.CreatedAt = oldCurrent.CreatedAt
	newSheet.UpdatedAt = now

	if _, err := st.c.InsertOne(ctx, newSheet); err != nil {
		return models.Sheet{}, err
	}
	return newSheet, nil
}

// Restore makes the historical row target the lineage head again. The
// present head becomes historical, and target's history is re-linearized:
// the entry that referenced target is dropped and the replaced head is
// prepended, so the full ancestor chain stays reachable.
func (st *Store) Restore(ctx context.Context, target models.Sheet, current models.Sheet) (models.Sheet, error) {
	if target.SheetID == current.SheetID {
		return models.Sheet{}, ErrDuplicateSheetID
	}

	now := time.Now().UTC()

	current.Current = false
	current.UpdatedAt = now
	err := st.c.FindOneAndReplace(ctx, bson.M{
		"owner_email": current.OwnerEmail,
		"sheet_id":    current.SheetID,
	}, current).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Sheet{}, ErrNotFound
		}
		return models.Sheet{}, err
	}

	history := []models.PrevVersion{{SheetID: current.SheetID, ReplacedAt: now}}
	for _, pv := range current.PrevVersions {
		if pv.SheetID == target.SheetID {
			continue
		}
		history = append(history, pv)
	}

	target.Current = true
	target.PrevVersions = history
	target.UpdatedAt = now
	err = st.c.FindOneAndReplace(ctx, bson.M{
		"owner_email": target.OwnerEmail,
		"sheet_id":    target.SheetID,
	}, target).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Sheet{}, ErrNotFound
		}
		return models.Sheet{}, err
	}
	return target, nil
}

// Delete removes the row for (owner_email, sheet_id) and every row named in
// its prev_versions. Rows already gone are skipped, so a repeated delete is
// a no-op. Returns the rows that were present, so the caller can remove
// the stored file objects.
func (st *Store) Delete(ctx context.Context, ownerEmail, sheetID string) ([]models.Sheet, error) {
	head, err := st.GetByID(ctx, ownerEmail, sheetID)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	rows := []models.Sheet{*head}
	for _, pv := range head.PrevVersions {
		old, err := st.GetByID(ctx, ownerEmail, pv.SheetID)
		if err != nil {
			if err == ErrNotFound {
				continue
			}
			return nil, err
		}
		rows = append(rows, *old)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SheetID)
	}
	_, err = st.c.DeleteMany(ctx, bson.M{
		"owner_email": head.OwnerEmail,
		"sheet_id":    bson.M{"$in": ids},
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// VersionEntry pairs a historical row with the time it was replaced.
type VersionEntry struct {
	Sheet      models.Sheet `json:"sheet"`
	ReplacedAt time.Time    `json:"replaced_at"`
}

// PreviousVersions materializes s's history by walking prev_versions,
// most recent first.
func (st *Store) PreviousVersions(ctx context.Context, s *models.Sheet) ([]VersionEntry, error) {
	entries := make([]VersionEntry, 0, len(s.PrevVersions))
	for _, pv := range s.PrevVersions {
		old, err := st.GetByID(ctx, s.OwnerEmail, pv.SheetID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, VersionEntry{Sheet: *old, ReplacedAt: pv.ReplacedAt})
	}
	return entries, nil
}

// ListCurrent returns one page of the owner's current rows plus a has-next
// indicator, fetched with the limit-plus-one pattern.
func (st *Store) ListCurrent(ctx context.Context, ownerEmail string, pg paging.Options) ([]models.Sheet, bool, error) {
	filter := bson.M{"owner_email": normalize.Email(ownerEmail), "current": true}
	return st.findPage(ctx, filter, pg)
}

// Search runs a text search over the owner's current rows (piece, composers,
// instruments, tags, catalog_number are in the text index).
func (st *Store) Search(ctx context.Context, ownerEmail, query string, pg paging.Options) ([]models.Sheet, bool, error) {
	filter := bson.M{
		"owner_email": normalize.Email(ownerEmail),
		"current":     true,
		"$text":       bson.M{"$search": query},
	}
	return st.findPage(ctx, filter, pg)
}

// ByListField returns the owner's current rows where the list-valued field
// (tags, instruments, composers) contains value.
func (st *Store) ByListField(ctx context.Context, ownerEmail, field, value string, pg paging.Options) ([]models.Sheet, bool, error) {
	if !isListField(field) {
		return nil, false, ErrBadField
	}
	filter := bson.M{
		"owner_email": normalize.Email(ownerEmail),
		"current":     true,
		field:         bson.M{"$elemMatch": bson.M{"$eq": value}},
	}
	return st.findPage(ctx, filter, pg)
}

// FindRelated returns current rows of the same owner matching s on field:
// scalar fields by equality, list fields when any element overlaps. With
// exclude set, s itself is dropped from the results.
func (st *Store) FindRelated(ctx context.Context, s *models.Sheet, field string, exclude bool, pg paging.Options) ([]models.Sheet, bool, error) {
	filter, err := relatedFilter(s, field, exclude)
	if err != nil {
		return nil, false, err
	}
	return st.findPage(ctx, filter, pg)
}

func relatedFilter(s *models.Sheet, field string, exclude bool) (bson.M, error) {
	filter := bson.M{
		"owner_email": s.OwnerEmail,
		"current":     true,
	}
	switch field {
	case "piece":
		filter[field] = s.Piece
	case "catalog_number":
		filter[field] = s.CatalogNumber
	case "genre":
		filter[field] = s.Genre
	case "type":
		filter[field] = s.Type
	case "tags":
		filter[field] = bson.M{"$elemMatch": bson.M{"$in": s.Tags}}
	case "instruments":
		filter[field] = bson.M{"$elemMatch": bson.M{"$in": s.Instruments}}
	case "composers":
		filter[field] = bson.M{"$elemMatch": bson.M{"$in": s.Composers}}
	default:
		return nil, ErrBadField
	}
	if exclude {
		filter["sheet_id"] = bson.M{"$ne": s.SheetID}
	}
	return filter, nil
}

func isListField(field string) bool {
	return field == "tags" || field == "instruments" || field == "composers"
}

// findPage fetches limit+1 rows to detect a following page without a second
// count query.
func (st *Store) findPage(ctx context.Context, filter bson.M, pg paging.Options) ([]models.Sheet, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: pg.Sort, Value: pg.Direction}}).
		SetSkip(pg.Skip()).
		SetLimit(int64(pg.Limit + 1))

	cur, err := st.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var rows []models.Sheet
	if err := cur.All(ctx, &rows); err != nil {
		return nil, false, err
	}

	hasNext := len(rows) > pg.Limit
	if hasNext {
		rows = rows[:pg.Limit]
	}
	return rows, hasNext, nil
}

// DistinctTags returns every tag appearing on the owner's current rows.
func (st *Store) DistinctTags(ctx context.Context, ownerEmail string) ([]string, error) {
	return st.distinct(ctx, "tags", bson.M{"owner_email": normalize.Email(ownerEmail), "current": true})
}

// DistinctInstruments returns every instrument on the owner's current rows.
func (st *Store) DistinctInstruments(ctx context.Context, ownerEmail string) ([]string, error) {
	return st.distinct(ctx, "instruments", bson.M{"owner_email": normalize.Email(ownerEmail), "current": true})
}

// DistinctComposers returns every composer across the owner's rows,
// historical versions included.
func (st *Store) DistinctComposers(ctx context.Context, ownerEmail string) ([]string, error) {
	return st.distinct(ctx, "composers", bson.M{"owner_email": normalize.Email(ownerEmail)})
}

func (st *Store) distinct(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := st.c.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
