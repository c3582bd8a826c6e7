package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"

	"github.com/mamde/storefront/internal/domain"
)

// listingBatch names the result entry of a listing import.
const listingBatch = "listing"

// Store is the part of product storage the importer needs.
type Store interface {
	GetAllProductNames(ctx context.Context) ([]string, error)
	InsertProduct(ctx context.Context, p domain.Product) (domain.Product, error)
}

// CategoryResult tallies one imported batch.
type CategoryResult struct {
	Category   string `json:"category"`
	Processed  int    `json:"processed"`
	Added      int    `json:"added"`
	Duplicates int    `json:"duplicates"`
	Failed     int    `json:"failed"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ImportResult tallies a whole import run.
type ImportResult struct {
	Added       int              `json:"added"`
	Duplicates  int              `json:"duplicates"`
	Failed      int              `json:"failed"`
	PerCategory []CategoryResult `json:"perCategory"`
}

func (r *ImportResult) add(c CategoryResult) {
	r.Added += c.Added
	r.Duplicates += c.Duplicates
	r.Failed += c.Failed
	r.PerCategory = append(r.PerCategory, c)
}

// Importer validates drafts and inserts the ones whose name is not yet in the store.
type Importer struct {
	store     Store
	extractor *Extractor
}

// NewImporter creates a new Importer.
func NewImporter(store Store, extractor *Extractor) *Importer {
	return &Importer{store: store, extractor: extractor}
}

// ImportBatches imports raw catalog text keyed by source category, in key order.
// Unmapped categories are reported as skipped and do not stop the run.
func (im *Importer) ImportBatches(ctx context.Context, batches map[string]string) (ImportResult, error) {
	seen, err := im.existingNames(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	keys := lo.Keys(batches)
	slices.Sort(keys)

	result := ImportResult{PerCategory: make([]CategoryResult, 0, len(keys))}
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		drafts, err := im.extractor.Extract(batches[key], key)
		if err != nil {
			cr := CategoryResult{Category: key, Error: err.Error()}
			if errors.Is(err, ErrMappingMissing) {
				cr.Skipped = true
			}
			result.add(cr)
			continue
		}

		result.add(im.insert(ctx, key, drafts, seen))
	}

	slog.Info("catalog: import finished", "added", result.Added, "duplicates", result.Duplicates, "failed", result.Failed)
	return result, nil
}

// ImportListing imports the category tiles of a catalog listing page.
func (im *Importer) ImportListing(ctx context.Context, raw string) (ImportResult, error) {
	seen, err := im.existingNames(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	drafts := lo.Map(ParseListing(raw), func(l Listing, _ int) domain.CatalogDraft {
		return l.Draft()
	})

	var result ImportResult
	result.add(im.insert(ctx, listingBatch, drafts, seen))
	slog.Info("catalog: listing import finished", "added", result.Added, "duplicates", result.Duplicates, "failed", result.Failed)
	return result, nil
}

func (im *Importer) existingNames(ctx context.Context) (map[string]struct{}, error) {
	names, err := im.store.GetAllProductNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading existing product names: %w", err)
	}
	return lo.Keyify(names), nil
}

// insert adds names it inserts to seen, so later batches of the same run see them.
func (im *Importer) insert(ctx context.Context, batch string, drafts []domain.CatalogDraft, seen map[string]struct{}) CategoryResult {
	cr := CategoryResult{Category: batch, Processed: len(drafts)}

	for _, d := range drafts {
		if _, dup := seen[d.Name]; dup {
			cr.Duplicates++
			continue
		}
		if err := Validate(d); err != nil {
			slog.Warn("catalog: rejecting draft", "category", batch, "name", d.Name, "error", err)
			cr.Failed++
			continue
		}
		if _, err := im.store.InsertProduct(ctx, d.ToProduct()); err != nil {
			slog.Error("catalog: failed to insert product", "category", batch, "name", d.Name, "error", err)
			cr.Failed++
			if cr.Error == "" {
				cr.Error = err.Error()
			}
			continue
		}
		seen[d.Name] = struct{}{}
		cr.Added++
	}

	slog.Info("catalog: batch imported", "category", batch, "processed", cr.Processed, "added", cr.Added, "duplicates", cr.Duplicates, "failed", cr.Failed)
	return cr
}
