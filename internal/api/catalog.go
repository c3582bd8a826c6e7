package api

import (
	"log/slog"
	"net/http"

	"github.com/mamde/storefront/internal/catalog"
)

// CatalogHandler serves the catalog import endpoint.
type CatalogHandler struct {
	importer CatalogImporter
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(importer CatalogImporter) *CatalogHandler {
	return &CatalogHandler{importer: importer}
}

type importRequest struct {
	// CatalogData maps a category key to the scraped text of that category's page.
	CatalogData map[string]string `json:"catalogData"`
	// Content is a scraped top-level listing page.
	Content string `json:"content"`
}

// Import handles POST /api/catalog/import.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		result catalog.ImportResult
		err    error
	)
	switch {
	case len(req.CatalogData) > 0:
		result, err = h.importer.ImportBatches(r.Context(), req.CatalogData)
	case req.Content != "":
		result, err = h.importer.ImportListing(r.Context(), req.Content)
	default:
		writeError(w, http.StatusBadRequest, "catalogData or content is required")
		return
	}
	if err != nil {
		slog.Error("catalog import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("catalog imported", "added", result.Added, "duplicates", result.Duplicates, "failed", result.Failed)
	writeJSON(w, http.StatusOK, result)
}
