// internal/app/features/tags/handler.go
package tags

import (
	"net/http"

	sheetstore "github.com/dalemusser/scorehub/internal/app/store/sheets"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"github.com/dalemusser/scorehub/internal/app/system/paging"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Sheets *sheetstore.Store
	Log    *zap.Logger
}

func NewHandler(sheets *sheetstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Sheets: sheets, Log: logger}
}

type sheetPage struct {
	Sheets  []models.Sheet `json:"sheets"`
	Page    int            `json:"page"`
	HasNext bool           `json:"has_next"`
}

// ServeList handles GET /tags: every distinct tag across the owner's
// current sheets.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	values, err := h.Sheets.DistinctTags(r.Context(), user.Email)
	if err != nil {
		h.Log.Error("tags: listing failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, values)
}

// ServeSheets handles GET /tags/{tag}/sheets: a page of the owner's
// current sheets carrying the tag.
func (h *Handler) ServeSheets(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	tag := chi.URLParam(r, "tag")
	pg := paging.FromRequest(r, "piece", paging.DefaultLimit, models.IsSortableSheetField)

	rows, hasNext, err := h.Sheets.ByListField(r.Context(), user.Email, "tags", tag, pg)
	if err != nil {
		h.Log.Error("tags: sheet page failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, sheetPage{Sheets: rows, Page: pg.Page, HasNext: hasNext})
}
