package sheetstore_test

import (
	"sort"
	"testing"

	sheetstore "github.com/dalemusser/scorehub/internal/app/store/sheets"
	"github.com/dalemusser/scorehub/internal/app/system/indexes"
	"github.com/dalemusser/scorehub/internal/app/system/paging"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/dalemusser/scorehub/internal/testutil"
	"github.com/google/uuid"
)

const owner = "owner@example.com"

func setup(t *testing.T) *sheetstore.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensuring indexes failed: %v", err)
	}

	return sheetstore.New(db)
}

func newSheet(piece string) models.Sheet {
	return models.Sheet{
		OwnerEmail: owner,
		SheetID:    uuid.NewString(),
		Piece:      piece,
		Composers:  []string{"Debussy"},
		FileExt:    "pdf",
	}
}

func defaultPage() paging.Options {
	return paging.Options{Page: 1, Limit: paging.DefaultLimit, Sort: "piece", Direction: 1}
}

func TestCreate_NormalizesAndStartsLineage(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := newSheet("Clair de Lune")
	s.Tags = []string{"Jazz", ""}
	s.Composers = []string{" Debussy ", ""}

	created, err := store.Create(ctx, s)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created.Current {
		t.Error("new sheet is not current")
	}
	if len(created.PrevVersions) != 0 {
		t.Errorf("new sheet has history: %v", created.PrevVersions)
	}

	got, err := store.GetByID(ctx, owner, s.SheetID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "jazz" {
		t.Errorf("tags = %v, want [jazz]", got.Tags)
	}
	if len(got.Composers) != 1 || got.Composers[0] != "Debussy" {
		t.Errorf("composers = %v, want [Debussy]", got.Composers)
	}
}

func TestGetByID_Missing(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, owner, "no-such-sheet"); err != sheetstore.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGetByID_ScopedToOwner(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := newSheet("Private Piece")
	if _, err := store.Create(ctx, s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.GetByID(ctx, "other@example.com", s.SheetID); err != sheetstore.ErrNotFound {
		t.Errorf("cross-owner lookup: got %v, want ErrNotFound", err)
	}
}

func TestUpdate_SupersedesHead(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, newSheet("Arabesque"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	next := newSheet("Arabesque No. 1")
	updated, err := store.Update(ctx, first, next)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !updated.Current {
		t.Error("new head is not current")
	}
	if len(updated.PrevVersions) != 1 || updated.PrevVersions[0].SheetID != first.SheetID {
		t.Errorf("prev_versions = %v, want one entry naming %s", updated.PrevVersions, first.SheetID)
	}
	if !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Error("new head did not inherit the lineage created_at")
	}

	old, err := store.GetByID(ctx, owner, first.SheetID)
	if err != nil {
		t.Fatalf("old row lookup failed: %v", err)
	}
	if old.Current {
		t.Error("replaced row is still current")
	}
}

func TestUpdate_RejectsReusedSheetID(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := store.Create(ctx, newSheet("Gymnopedie"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	next := newSheet("Gymnopedie No. 1")
	next.SheetID = first.SheetID
	if _, err := store.Update(ctx, first, next); err != sheetstore.ErrDuplicateSheetID {
		t.Errorf("got %v, want ErrDuplicateSheetID", err)
	}
}

// chain creates a lineage with two edits and returns the three versions
// oldest first, with the last one current.
func chain(t *testing.T, store *sheetstore.Store) (models.Sheet, models.Sheet, models.Sheet) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v1, err := store.Create(ctx, newSheet("Version One"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	v2, err := store.Update(ctx, v1, newSheet("Version Two"))
	if err != nil {
		t.Fatalf("first Update failed: %v", err)
	}
	v3, err := store.Update(ctx, v2, newSheet("Version Three"))
	if err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	return v1, v2, v3
}

func TestPreviousVersions_WalksChain(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v1, v2, v3 := chain(t, store)

	head, err := store.GetByID(ctx, owner, v3.SheetID)
	if err != nil {
		t.Fatalf("head lookup failed: %v", err)
	}

	entries, err := store.PreviousVersions(ctx, head)
	if err != nil {
		t.Fatalf("PreviousVersions failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Most recent ancestor first.
	if entries[0].Sheet.SheetID != v2.SheetID {
		t.Errorf("entries[0] = %s, want %s", entries[0].Sheet.SheetID, v2.SheetID)
	}
	if entries[1].Sheet.SheetID != v1.SheetID {
		t.Errorf("entries[1] = %s, want %s", entries[1].Sheet.SheetID, v1.SheetID)
	}
}

func TestCurrentReferencing(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v1, _, v3 := chain(t, store)

	head, err := store.CurrentReferencing(ctx, owner, v1.SheetID)
	if err != nil {
		t.Fatalf("CurrentReferencing failed: %v", err)
	}
	if head.SheetID != v3.SheetID {
		t.Errorf("head = %s, want %s", head.SheetID, v3.SheetID)
	}

	if _, err := store.CurrentReferencing(ctx, owner, v3.SheetID); err != sheetstore.ErrNotFound {
		t.Errorf("head referenced by nothing: got %v, want ErrNotFound", err)
	}
}

func TestRestore_KeepsAncestors(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v1, v2, v3 := chain(t, store)

	// Promote the oldest version back to head.
	target, err := store.GetByID(ctx, owner, v1.SheetID)
	if err != nil {
		t.Fatalf("target lookup failed: %v", err)
	}
	restored, err := store.Restore(ctx, *target, v3)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if !restored.Current {
		t.Error("restored row is not current")
	}

	// History must name the demoted head and every remaining ancestor: the
	// promoted row's own entry disappears, nothing else does.
	gotIDs := make([]string, len(restored.PrevVersions))
	for i, pv := range restored.PrevVersions {
		gotIDs[i] = pv.SheetID
	}
	if len(gotIDs) != 2 || gotIDs[0] != v3.SheetID || gotIDs[1] != v2.SheetID {
		t.Errorf("prev_versions = %v, want [%s %s]", gotIDs, v3.SheetID, v2.SheetID)
	}

	// The demoted head is historical now.
	demoted, err := store.GetByID(ctx, owner, v3.SheetID)
	if err != nil {
		t.Fatalf("demoted lookup failed: %v", err)
	}
	if demoted.Current {
		t.Error("demoted head is still current")
	}

	// Exactly one current row per lineage.
	rows, _, err := store.ListCurrent(ctx, owner, defaultPage())
	if err != nil {
		t.Fatalf("ListCurrent failed: %v", err)
	}
	if len(rows) != 1 || rows[0].SheetID != v1.SheetID {
		t.Errorf("current rows = %v, want only %s", rows, v1.SheetID)
	}
}

func TestDelete_RemovesChainAndIsIdempotent(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	v1, v2, v3 := chain(t, store)

	rows, err := store.Delete(ctx, owner, v3.SheetID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("got %d removed rows, want 3", len(rows))
	}

	for _, id := range []string{v1.SheetID, v2.SheetID, v3.SheetID} {
		if _, err := store.GetByID(ctx, owner, id); err != sheetstore.ErrNotFound {
			t.Errorf("row %s still present: %v", id, err)
		}
	}

	// Deleting again is a no-op.
	rows, err = store.Delete(ctx, owner, v3.SheetID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("second delete removed %d rows, want 0", len(rows))
	}
}

func TestListCurrent_PagesWithHasNext(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, piece := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"} {
		if _, err := store.Create(ctx, newSheet(piece)); err != nil {
			t.Fatalf("Create(%s) failed: %v", piece, err)
		}
	}

	pg := paging.Options{Page: 1, Limit: 2, Sort: "piece", Direction: 1}
	rows, hasNext, err := store.ListCurrent(ctx, owner, pg)
	if err != nil {
		t.Fatalf("ListCurrent failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Piece != "Alpha" || rows[1].Piece != "Beta" {
		t.Errorf("page 1 = [%s %s], want [Alpha Beta]", rows[0].Piece, rows[1].Piece)
	}
	if !hasNext {
		t.Error("page 1: hasNext = false, want true")
	}

	pg.Page = 3
	rows, hasNext, err = store.ListCurrent(ctx, owner, pg)
	if err != nil {
		t.Fatalf("ListCurrent page 3 failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Piece != "Gamma" {
		t.Errorf("page 3 = %v, want [Gamma]", rows)
	}
	if hasNext {
		t.Error("last page: hasNext = true, want false")
	}
}

func TestSearch(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	moonlight := newSheet("Moonlight Sonata")
	moonlight.Composers = []string{"Beethoven"}
	if _, err := store.Create(ctx, moonlight); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newSheet("Reverie")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows, _, err := store.Search(ctx, owner, "Beethoven", defaultPage())
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Piece != "Moonlight Sonata" {
		t.Errorf("search results = %v, want [Moonlight Sonata]", rows)
	}
}

func TestByListField(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tagged := newSheet("Take Five")
	tagged.Tags = []string{"jazz", "quintet"}
	if _, err := store.Create(ctx, tagged); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, newSheet("Untagged Piece")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows, _, err := store.ByListField(ctx, owner, "tags", "jazz", defaultPage())
	if err != nil {
		t.Fatalf("ByListField failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Piece != "Take Five" {
		t.Errorf("results = %v, want [Take Five]", rows)
	}

	if _, _, err := store.ByListField(ctx, owner, "piece", "Take Five", defaultPage()); err != sheetstore.ErrBadField {
		t.Errorf("scalar field: got %v, want ErrBadField", err)
	}
}

func TestFindRelated(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := newSheet("Nocturne in A")
	a.Genre = "romantic"
	a.Instruments = []string{"piano"}
	createdA, err := store.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b := newSheet("Nocturne in B")
	b.Genre = "romantic"
	b.Instruments = []string{"piano", "violin"}
	if _, err := store.Create(ctx, b); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	c := newSheet("March")
	c.Genre = "military"
	if _, err := store.Create(ctx, c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pg := paging.Options{Page: 1, Limit: paging.RelatedLimit, Sort: "piece", Direction: 1}

	// Scalar match on genre, the sheet itself excluded.
	rows, _, err := store.FindRelated(ctx, &createdA, "genre", true, pg)
	if err != nil {
		t.Fatalf("FindRelated failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Piece != "Nocturne in B" {
		t.Errorf("genre results = %v, want [Nocturne in B]", rows)
	}

	// List overlap on instruments.
	rows, _, err = store.FindRelated(ctx, &createdA, "instruments", true, pg)
	if err != nil {
		t.Fatalf("FindRelated failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Piece != "Nocturne in B" {
		t.Errorf("instrument results = %v, want [Nocturne in B]", rows)
	}

	// Without exclusion the sheet matches itself.
	rows, _, err = store.FindRelated(ctx, &createdA, "genre", false, pg)
	if err != nil {
		t.Fatalf("FindRelated failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("unexcluded results = %v, want both nocturnes", rows)
	}

	if _, _, err := store.FindRelated(ctx, &createdA, "owner_email", true, pg); err != sheetstore.ErrBadField {
		t.Errorf("unknown field: got %v, want ErrBadField", err)
	}
}

func TestDistinct(t *testing.T) {
	store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := newSheet("First Piece")
	s.Tags = []string{"jazz"}
	s.Instruments = []string{"piano"}
	s.Composers = []string{"Old Composer"}
	created, err := store.Create(ctx, s)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	next := newSheet("First Piece Revised")
	next.Tags = []string{"jazz", "trio"}
	next.Instruments = []string{"piano", "bass"}
	next.Composers = []string{"New Composer"}
	if _, err := store.Update(ctx, created, next); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tags, err := store.DistinctTags(ctx, owner)
	if err != nil {
		t.Fatalf("DistinctTags failed: %v", err)
	}
	sort.Strings(tags)
	if len(tags) != 2 || tags[0] != "jazz" || tags[1] != "trio" {
		t.Errorf("tags = %v, want [jazz trio] (current rows only)", tags)
	}

	instruments, err := store.DistinctInstruments(ctx, owner)
	if err != nil {
		t.Fatalf("DistinctInstruments failed: %v", err)
	}
	sort.Strings(instruments)
	if len(instruments) != 2 || instruments[0] != "bass" || instruments[1] != "piano" {
		t.Errorf("instruments = %v, want [bass piano]", instruments)
	}

	// Composers span the whole history, not just the current head.
	composers, err := store.DistinctComposers(ctx, owner)
	if err != nil {
		t.Fatalf("DistinctComposers failed: %v", err)
	}
	sort.Strings(composers)
	if len(composers) != 2 || composers[0] != "New Composer" || composers[1] != "Old Composer" {
		t.Errorf("composers = %v, want both generations", composers)
	}
}
