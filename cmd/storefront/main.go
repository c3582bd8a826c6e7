package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mamde/storefront/internal/api"
	"github.com/mamde/storefront/internal/catalog"
	"github.com/mamde/storefront/internal/config"
	"github.com/mamde/storefront/internal/database"
	"github.com/mamde/storefront/internal/export"
	"github.com/mamde/storefront/internal/pricing"
	"github.com/mamde/storefront/internal/rates"
	"github.com/mamde/storefront/internal/store"
	"github.com/mamde/storefront/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "storefront",
		Usage: "jewellery catalog with live metal rate pricing",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and background workers",
				Action: serve,
			},
			{
				Name:  "import",
				Usage: "import scraped catalog pages into the product store",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "category",
						Usage: "category page to import as key=path, repeatable",
					},
					&cli.StringFlag{
						Name:  "listing",
						Usage: "path of a scraped top-level listing page",
					},
				},
				Action: importCatalog,
			},
			{
				Name:  "export",
				Usage: "write the current price list to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Value: "prices.xlsx",
						Usage: "output file",
					},
				},
				Action: exportPrices,
			},
		},
		DefaultCommand: "serve",
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("storefront: %v", err)
	}
}

// deps holds the services shared by every command.
type deps struct {
	cfg      config.Config
	pool     *pgxpool.Pool
	store    *store.PgStore
	rates    *rates.Service
	resolver *pricing.Resolver
}

func setup(ctx context.Context) (*deps, error) {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	st := store.NewPgStore(pool)

	source := rates.NewSource(cfg.RateSourceConfig())
	rateSvc := rates.NewService(rates.NewCache(source), st)
	if err := rateSvc.Warm(ctx); err != nil {
		slog.Warn("failed to warm rate cache", "error", err)
	}

	return &deps{
		cfg:      cfg,
		pool:     pool,
		store:    st,
		rates:    rateSvc,
		resolver: pricing.NewResolver(rateSvc),
	}, nil
}

func (d *deps) importer() (*catalog.Importer, error) {
	mappings, err := catalog.LoadMappings(d.cfg.CatalogMappingsFile)
	if err != nil {
		return nil, err
	}
	return catalog.NewImporter(d.store, catalog.NewExtractor(mappings, nil)), nil
}

func (d *deps) priceLists() *export.Service {
	return export.NewService(d.store, d.rates, d.resolver)
}

func serve(c *cli.Context) error {
	ctx := c.Context

	d, err := setup(ctx)
	if err != nil {
		return err
	}
	defer d.pool.Close()

	importer, err := d.importer()
	if err != nil {
		return err
	}
	priceLists := d.priceLists()

	var writer worker.PriceListWriter
	if d.cfg.SheetsEnabled() {
		sheets, err := export.NewSheetsWriter(ctx, d.cfg.GoogleSpreadsheetID, d.cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		writer = sheets
	} else {
		slog.Info("Google Sheets export disabled, price list is built without publishing")
	}

	srv := api.NewServer(d.cfg.HTTPPort, api.Services{
		Rates:     d.rates,
		Products:  d.store,
		Pricer:    d.resolver,
		Importer:  importer,
		PriceList: priceLists,
	}, d.cfg.AdminAPIKey)

	slog.Info("rate source selected", "source", d.rates.SourceName())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.NewRateWorker(d.rates, d.cfg.RateWorkerInterval).Run(gctx)
		return nil
	})
	g.Go(func() error {
		worker.NewPriceListWorker(priceLists, d.cfg.PriceListWorkerInterval, writer).Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Printf("HTTP server listening on :%s", d.cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		return nil
	})

	err = g.Wait()
	log.Println("Shutdown complete")
	return err
}
