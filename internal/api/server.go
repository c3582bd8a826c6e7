package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Services bundles the collaborators the HTTP layer calls into.
type Services struct {
	Rates    RateService
	Products ProductStore
	Pricer   Pricer
	Importer CatalogImporter
	// PriceList is optional; the xlsx download is not routed without it.
	PriceList PriceListBuilder
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, svc Services, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(svc, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers the storefront routes on a new ServeMux.
func NewRouter(svc Services, adminAPIKey string) http.Handler {
	rates := NewRateHandler(svc.Rates)
	products := NewProductHandler(svc.Products, svc.Pricer)
	imports := NewCatalogHandler(svc.Importer)

	if adminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, admin endpoints are unauthenticated")
	}
	admin := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rates", rates.GetRates)
	mux.HandleFunc("GET /api/rates/breakdown", rates.GetBreakdown)
	mux.HandleFunc("GET /api/purities", rates.GetPurities)
	mux.Handle("POST /api/rates/update", admin(rates.UpdateRate))

	mux.HandleFunc("GET /api/products", products.ListProducts)
	mux.HandleFunc("GET /api/products/featured", products.ListFeatured)
	mux.HandleFunc("GET /api/products/{id}", products.GetProduct)
	// "/api/products/category/{category}" and "/api/products/{id}/price" overlap
	// on ServeMux, so both are dispatched from one pattern.
	mux.HandleFunc("GET /api/products/{first}/{second}", products.GetSubresource)
	mux.HandleFunc("GET /api/products/category/{category}/{subcategory}", products.ListBySubcategory)
	mux.Handle("POST /api/products", admin(products.CreateProduct))
	mux.Handle("PUT /api/products/{id}", admin(products.UpdateProduct))
	mux.Handle("DELETE /api/products/{id}", admin(products.DeleteProduct))

	mux.Handle("POST /api/catalog/import", admin(imports.Import))

	if svc.PriceList != nil {
		exports := NewExportHandler(svc.PriceList)
		mux.Handle("GET /api/export/prices.xlsx", admin(exports.DownloadXLSX))
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
