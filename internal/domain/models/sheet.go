// internal/domain/models/sheet.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrevVersion is one link in a sheet's edit history: the lineage id that was
// replaced and when the replacement happened. Entries are ordered most
// recent first on the owning sheet.
type PrevVersion struct {
	SheetID    string    `bson:"sheet_id" json:"sheet_id"`
	ReplacedAt time.Time `bson:"replaced_at" json:"replaced_at"`
}

// Sheet is one revision of a piece of sheet music. Every edit inserts a new
// row with a fresh SheetID; the old row is kept with Current=false, so a
// lineage is the set of rows reachable through PrevVersions.
//
// SheetID doubles as the object-store basename: the uploaded file lives at
// "{owner_email}/{sheet_id}.{file_ext}".
type Sheet struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OwnerEmail    string             `bson:"owner_email" json:"owner_email"`
	SheetID       string             `bson:"sheet_id" json:"sheet_id"`
	Piece         string             `bson:"piece" json:"piece"`
	CatalogNumber string             `bson:"catalog_number,omitempty" json:"catalog_number,omitempty"`
	Composers     []string           `bson:"composers" json:"composers"`
	Genre         string             `bson:"genre,omitempty" json:"genre,omitempty"`
	Tags          []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Instruments   []string           `bson:"instruments,omitempty" json:"instruments,omitempty"`
	Type          string             `bson:"type,omitempty" json:"type,omitempty"`
	FileExt       string             `bson:"file_ext" json:"file_ext"`
	Current       bool               `bson:"current" json:"current"`
	PrevVersions  []PrevVersion      `bson:"prev_versions" json:"prev_versions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SortableSheetFields are the fields list endpoints accept for ordering.
// Anything else falls back to "piece".
var SortableSheetFields = []string{"piece", "catalog_number", "genre", "type"}

// IsSortableSheetField reports whether name may be used as a sort key.
func IsSortableSheetField(name string) bool {
	for _, f := range SortableSheetFields {
		if f == name {
			return true
		}
	}
	return false
}
