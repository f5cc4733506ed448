// internal/app/features/sheets/handler.go
package sheets

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dalemusser/scorehub/internal/app/store/files"
	sheetstore "github.com/dalemusser/scorehub/internal/app/store/sheets"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"github.com/dalemusser/scorehub/internal/app/system/paging"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Sheets *sheetstore.Store
	Files  *files.Store
	Log    *zap.Logger
}

func NewHandler(sheets *sheetstore.Store, fileStore *files.Store, logger *zap.Logger) *Handler {
	return &Handler{Sheets: sheets, Files: fileStore, Log: logger}
}

// ownedSheet loads the sheet named in the URL, scoped to the signed-in
// owner. Ownership always comes from the session, never from the request.
func (h *Handler) ownedSheet(w http.ResponseWriter, r *http.Request) (*models.Sheet, *models.User) {
	user, _ := auth.CurrentUser(r)
	sheetID := chi.URLParam(r, "sheetID")

	s, err := h.Sheets.GetByID(r.Context(), user.Email, sheetID)
	if err == sheetstore.ErrNotFound {
		httpapi.Error(w, http.StatusNotFound, "Could not find matching sheet.")
		return nil, nil
	}
	if err != nil {
		h.Log.Error("sheets: lookup failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return nil, nil
	}
	return s, user
}

// ServeList handles GET /sheets. With ?q= it runs a text search; otherwise
// it pages through the owner's current rows.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	pg := paging.FromRequest(r, "piece", paging.DefaultLimit, models.IsSortableSheetField)

	var (
		rows    []models.Sheet
		hasNext bool
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		rows, hasNext, err = h.Sheets.Search(r.Context(), user.Email, q, pg)
	} else {
		rows, hasNext, err = h.Sheets.ListCurrent(r.Context(), user.Email, pg)
	}
	if err != nil {
		h.Log.Error("sheets: list failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, listResponse{Sheets: rows, Page: pg.Page, HasNext: hasNext})
}

// ServeCreate handles POST /sheets: multipart metadata plus score file,
// starting a fresh lineage.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	form, err := parseSheetForm(r)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid form data.")
		return
	}
	if form.Piece == "" || len(form.Composers) == 0 {
		httpapi.Error(w, http.StatusBadRequest, "A piece title and at least one composer are required.")
		return
	}

	file, header, err := r.FormFile(fileFieldName)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "A sheet file is required.")
		return
	}
	defer file.Close()

	ext := fileExt(header.Filename)
	if ext == "" {
		httpapi.Error(w, http.StatusBadRequest, "The sheet file needs an extension.")
		return
	}

	s := models.Sheet{
		OwnerEmail: user.Email,
		SheetID:    uuid.NewString(),
		FileExt:    ext,
	}
	form.apply(&s)

	if err := h.Files.Put(r.Context(), user.Email, s.SheetID, ext, file, contentTypeFor(ext)); err != nil {
		h.Log.Error("sheets: file upload failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Could not store the sheet file.")
		return
	}

	created, err := h.Sheets.Create(r.Context(), s)
	if err != nil {
		h.Log.Error("sheets: create failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusCreated, created)
}

// ServeGet handles GET /sheets/{sheetID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	s, _ := h.ownedSheet(w, r)
	if s == nil {
		return
	}
	httpapi.JSON(w, http.StatusOK, s)
}

// ServeUpdate handles PUT /sheets/{sheetID}: a new version supersedes the
// current row. A replacement file is optional; without one the stored
// object is copied under the new lineage id so every version keeps its own
// file.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	old, user := h.ownedSheet(w, r)
	if old == nil {
		return
	}
	if !old.Current {
		httpapi.Error(w, http.StatusBadRequest, "Only the current version can be edited.")
		return
	}

	form, err := parseSheetForm(r)
	if err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid form data.")
		return
	}
	if form.Piece == "" || len(form.Composers) == 0 {
		httpapi.Error(w, http.StatusBadRequest, "A piece title and at least one composer are required.")
		return
	}

	next := models.Sheet{
		OwnerEmail: user.Email,
		SheetID:    uuid.NewString(),
		FileExt:    old.FileExt,
	}
	form.apply(&next)

	file, header, err := r.FormFile(fileFieldName)
	switch err {
	case nil:
		defer file.Close()
		ext := fileExt(header.Filename)
		if ext == "" {
			httpapi.Error(w, http.StatusBadRequest, "The sheet file needs an extension.")
			return
		}
		next.FileExt = ext
		if err := h.Files.Put(r.Context(), user.Email, next.SheetID, ext, file, contentTypeFor(ext)); err != nil {
			h.Log.Error("sheets: replacement upload failed", zap.Error(err))
			httpapi.Error(w, http.StatusInternalServerError, "Could not store the sheet file.")
			return
		}
	case http.ErrMissingFile:
		if err := h.Files.Copy(r.Context(), user.Email, old.SheetID, next.SheetID, old.FileExt); err != nil {
			h.Log.Error("sheets: file copy failed", zap.Error(err))
			httpapi.Error(w, http.StatusInternalServerError, "Could not store the sheet file.")
			return
		}
	default:
		httpapi.Error(w, http.StatusBadRequest, "Invalid form data.")
		return
	}

	updated, err := h.Sheets.Update(r.Context(), *old, next)
	if err == sheetstore.ErrDuplicateSheetID {
		// Should never happen: the new id was just generated.
		h.Log.Error("sheets: duplicate sheet id on update",
			zap.String("sheet_id", next.SheetID))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	if err != nil {
		h.Log.Error("sheets: update failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, updated)
}

// ServeDelete handles DELETE /sheets/{sheetID}: removes the whole version
// chain and every stored file. A second delete is a no-op.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	sheetID := chi.URLParam(r, "sheetID")

	rows, err := h.Sheets.Delete(r.Context(), user.Email, sheetID)
	if err != nil {
		h.Log.Error("sheets: delete failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	for _, row := range rows {
		if err := h.Files.Delete(r.Context(), row.OwnerEmail, row.SheetID, row.FileExt); err != nil {
			// The metadata is already gone; log and keep going so one
			// stranded object does not block the rest.
			h.Log.Error("sheets: file delete failed",
				zap.String("sheet_id", row.SheetID), zap.Error(err))
		}
	}

	httpapi.JSON(w, http.StatusOK, "Sheet Deleted")
}

// ServeVersions handles GET /sheets/{sheetID}/versions: the materialized
// history of the lineage, most recent first.
func (h *Handler) ServeVersions(w http.ResponseWriter, r *http.Request) {
	s, _ := h.ownedSheet(w, r)
	if s == nil {
		return
	}

	versions, err := h.Sheets.PreviousVersions(r.Context(), s)
	if err != nil {
		h.Log.Error("sheets: versions failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, versions)
}

// ServeRestore handles POST /sheets/{sheetID}/restore: reactivates the
// historical version named in the URL as the lineage head.
func (h *Handler) ServeRestore(w http.ResponseWriter, r *http.Request) {
	target, user := h.ownedSheet(w, r)
	if target == nil {
		return
	}
	if target.Current {
		httpapi.Error(w, http.StatusBadRequest, "That version is already current.")
		return
	}

	current, err := h.Sheets.CurrentReferencing(r.Context(), user.Email, target.SheetID)
	if err == sheetstore.ErrNotFound {
		httpapi.Error(w, http.StatusNotFound, "Could not find the current version of that sheet.")
		return
	}
	if err != nil {
		h.Log.Error("sheets: restore lookup failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	restored, err := h.Sheets.Restore(r.Context(), *target, *current)
	if err != nil {
		h.Log.Error("sheets: restore failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, restored)
}

// ServeFile handles GET /sheets/{sheetID}/file: streams the stored score.
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	s, user := h.ownedSheet(w, r)
	if s == nil {
		return
	}

	body, contentType, err := h.Files.Get(r.Context(), user.Email, s.SheetID, s.FileExt)
	if err != nil {
		h.Log.Error("sheets: file fetch failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Could not fetch the sheet file.")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = contentTypeFor(s.FileExt)
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, body); err != nil {
		h.Log.Warn("sheets: file stream interrupted", zap.Error(err))
	}
}

// ServeRelated handles GET /sheets/{sheetID}/related?field=...: current
// sheets of the same owner matching on one field, the sheet itself
// excluded unless ?exclude=false.
func (h *Handler) ServeRelated(w http.ResponseWriter, r *http.Request) {
	s, _ := h.ownedSheet(w, r)
	if s == nil {
		return
	}

	field := r.URL.Query().Get("field")
	if field == "" {
		field = "piece"
	}
	exclude := true
	if v, err := strconv.ParseBool(r.URL.Query().Get("exclude")); err == nil {
		exclude = v
	}

	pg := paging.FromRequest(r, "piece", paging.RelatedLimit, models.IsSortableSheetField)
	rows, hasNext, err := h.Sheets.FindRelated(r.Context(), s, field, exclude, pg)
	if err == sheetstore.ErrBadField {
		httpapi.Error(w, http.StatusBadRequest, "Unknown related field.")
		return
	}
	if err != nil {
		h.Log.Error("sheets: related failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, listResponse{Sheets: rows, Page: pg.Page, HasNext: hasNext})
}
