package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mamde/storefront/internal/export"
)

// ExportHandler serves price list downloads.
type ExportHandler struct {
	priceList PriceListBuilder
}

// NewExportHandler creates a new export handler.
func NewExportHandler(priceList PriceListBuilder) *ExportHandler {
	return &ExportHandler{priceList: priceList}
}

// DownloadXLSX handles GET /api/export/prices.xlsx.
func (h *ExportHandler) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	pl, err := h.priceList.Build(r.Context())
	if err != nil {
		slog.Error("failed to build price list", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var buf bytes.Buffer
	if err := export.NewXLSXWriter(&buf).Write(r.Context(), pl); err != nil {
		slog.Error("failed to render price list", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("prices-%s.xlsx", pl.GeneratedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write price list", "error", err)
	}
}
