// internal/app/features/sheets/types.go
package sheets

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dalemusser/scorehub/internal/domain/models"
)

// maxUploadBytes caps a score upload (metadata plus file) at 64 MB.
const maxUploadBytes = 64 << 20

// fileFieldName is the multipart field carrying the score file.
const fileFieldName = "sheet_file"

// listResponse is the paged sheet listing payload.
type listResponse struct {
	Sheets  []models.Sheet `json:"sheets"`
	Page    int            `json:"page"`
	HasNext bool           `json:"has_next"`
}

// sheetForm is the metadata portion of a create/update request. Multipart
// is used because the score file rides in the same request.
type sheetForm struct {
	Piece         string
	CatalogNumber string
	Composers     []string
	Genre         string
	Tags          []string
	Instruments   []string
	Type          string
}

// parseSheetForm reads the multipart metadata fields. List fields accept
// repeated form values.
func parseSheetForm(r *http.Request) (sheetForm, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return sheetForm{}, err
	}
	return sheetForm{
		Piece:         r.FormValue("piece"),
		CatalogNumber: r.FormValue("catalog_number"),
		Composers:     r.Form["composers"],
		Genre:         r.FormValue("genre"),
		Tags:          r.Form["tags"],
		Instruments:   r.Form["instruments"],
		Type:          r.FormValue("type"),
	}, nil
}

// apply writes the form fields onto a sheet row. Normalization happens in
// the store.
func (f sheetForm) apply(s *models.Sheet) {
	s.Piece = f.Piece
	s.CatalogNumber = f.CatalogNumber
	s.Composers = f.Composers
	s.Genre = f.Genre
	s.Tags = f.Tags
	s.Instruments = f.Instruments
	s.Type = f.Type
}

// fileExt extracts a lower-cased extension ("pdf", "png") from an uploaded
// filename.
func fileExt(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// contentTypeFor maps a score file extension to its MIME type.
func contentTypeFor(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
