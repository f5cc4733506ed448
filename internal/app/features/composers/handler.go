// internal/app/features/composers/handler.go
package composers

import (
	"net/http"

	sheetstore "github.com/dalemusser/scorehub/internal/app/store/sheets"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"go.uber.org/zap"
)

type Handler struct {
	Sheets *sheetstore.Store
	Log    *zap.Logger
}

func NewHandler(sheets *sheetstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Sheets: sheets, Log: logger}
}

// ServeList handles GET /composers: every distinct composer across all of
// the owner's sheet versions, historical rows included.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	values, err := h.Sheets.DistinctComposers(r.Context(), user.Email)
	if err != nil {
		h.Log.Error("composers: listing failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, values)
}
