package export

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	pricesSheet = "PRICES"
	ratesSheet  = "RATES"
)

var (
	priceHeader = []any{"Name", "Category", "Subcategory", "Material", "Purity", "Weight (g)", "Rate / g", "Price", "In Stock", "Rate Time"}
	rateHeader  = []any{"Material", "Purity", "Rate / g", "Change", "Source", "Updated"}
)

// buildPriceRows returns the PRICES sheet, header first.
func buildPriceRows(pl PriceList) [][]any {
	data := make([][]any, 0, len(pl.Rows)+1)
	data = append(data, priceHeader)
	for _, r := range pl.Rows {
		data = append(data, []any{
			r.Product.Name,
			r.Product.Category,
			r.Product.Subcategory,
			string(r.Price.Material),
			r.Price.Purity,
			toFloat(r.Price.Weight),
			toFloat(r.Price.RatePerGram),
			toFloat(r.Price.TotalPrice),
			r.Product.InStock,
			r.Price.ObservedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return data
}

// buildRateRows returns the RATES sheet: one row per base quote, then one per purity grade.
func buildRateRows(pl PriceList) [][]any {
	data := [][]any{rateHeader}
	for _, q := range pl.Rates {
		data = append(data, []any{
			string(q.Material),
			"base",
			toFloat(q.RatePerGram),
			toFloat(q.Change),
			q.Source,
			q.ObservedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	for _, b := range pl.Breakdown {
		data = append(data, []any{"", b.Purity, toFloat(b.RatePerGram), nil, nil, nil})
	}
	return data
}

// XLSXWriter writes price lists as Excel workbooks.
type XLSXWriter struct {
	out io.Writer
}

// NewXLSXWriter creates a writer that streams the workbook to out.
func NewXLSXWriter(out io.Writer) *XLSXWriter {
	return &XLSXWriter{out: out}
}

// Write renders pl into a workbook with a PRICES and a RATES sheet.
func (w *XLSXWriter) Write(_ context.Context, pl PriceList) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", pricesSheet); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	if _, err := f.NewSheet(ratesSheet); err != nil {
		return fmt.Errorf("creating rates sheet: %w", err)
	}

	if err := writeSheet(f, pricesSheet, buildPriceRows(pl)); err != nil {
		return err
	}
	if err := writeSheet(f, ratesSheet, buildRateRows(pl)); err != nil {
		return err
	}
	if err := f.SetColWidth(pricesSheet, "A", "A", 36); err != nil {
		return fmt.Errorf("sizing name column: %w", err)
	}

	if err := f.Write(w.out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("addressing %s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
