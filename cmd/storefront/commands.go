package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mamde/storefront/internal/catalog"
	"github.com/mamde/storefront/internal/export"
)

func importCatalog(c *cli.Context) error {
	categories := c.StringSlice("category")
	listing := c.String("listing")
	if len(categories) == 0 && listing == "" {
		return errors.New("at least one --category or --listing is required")
	}

	batches, err := readCategoryPages(categories)
	if err != nil {
		return err
	}

	d, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	importer, err := d.importer()
	if err != nil {
		return err
	}

	var total catalog.ImportResult
	if len(batches) > 0 {
		res, err := importer.ImportBatches(c.Context, batches)
		if err != nil {
			return err
		}
		merge(&total, res)
	}
	if listing != "" {
		raw, err := os.ReadFile(listing)
		if err != nil {
			return fmt.Errorf("reading listing page: %w", err)
		}
		res, err := importer.ImportListing(c.Context, string(raw))
		if err != nil {
			return err
		}
		merge(&total, res)
	}

	printImportResult(c.App.Writer, total)
	return nil
}

// readCategoryPages parses key=path flags and reads every page.
func readCategoryPages(flags []string) (map[string]string, error) {
	batches := make(map[string]string, len(flags))
	for _, f := range flags {
		key, path, ok := strings.Cut(f, "=")
		key, path = strings.TrimSpace(key), strings.TrimSpace(path)
		if !ok || key == "" || path == "" {
			return nil, fmt.Errorf("invalid --category %q, want key=path", f)
		}
		if _, dup := batches[key]; dup {
			return nil, fmt.Errorf("category %q given more than once", key)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading category %s: %w", key, err)
		}
		batches[key] = string(raw)
	}
	return batches, nil
}

func merge(total *catalog.ImportResult, res catalog.ImportResult) {
	total.Added += res.Added
	total.Duplicates += res.Duplicates
	total.Failed += res.Failed
	total.PerCategory = append(total.PerCategory, res.PerCategory...)
}

func printImportResult(w io.Writer, res catalog.ImportResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tPROCESSED\tADDED\tDUPLICATES\tFAILED\tNOTE")
	for _, c := range res.PerCategory {
		note := c.Error
		if c.Skipped {
			note = "skipped: " + note
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", c.Category, c.Processed, c.Added, c.Duplicates, c.Failed, note)
	}
	fmt.Fprintf(tw, "TOTAL\t\t%d\t%d\t%d\t\n", res.Added, res.Duplicates, res.Failed)
	tw.Flush()
}

func exportPrices(c *cli.Context) error {
	out := c.String("out")

	d, err := setup(c.Context)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	pl, err := d.priceLists().Build(c.Context)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.NewXLSXWriter(f).Write(c.Context, pl); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	slog.Info("price list exported", "file", out, "products", len(pl.Rows))
	return nil
}
