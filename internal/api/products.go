package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/catalog"
	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/pricing"
	"github.com/mamde/storefront/internal/store"
)

// ProductHandler serves catalog product endpoints.
type ProductHandler struct {
	products ProductStore
	pricer   Pricer
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products ProductStore, pricer Pricer) *ProductHandler {
	return &ProductHandler{products: products, pricer: pricer}
}

// ListProducts handles GET /api/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.ProductFilter{})
}

// ListFeatured handles GET /api/products/featured.
func (h *ProductHandler) ListFeatured(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.ProductFilter{FeaturedOnly: true})
}

// ListBySubcategory handles GET /api/products/category/{category}/{subcategory}.
func (h *ProductHandler) ListBySubcategory(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, store.ProductFilter{
		Category:    r.PathValue("category"),
		Subcategory: r.PathValue("subcategory"),
	})
}

// GetSubresource handles GET /api/products/category/{category} and GET /api/products/{id}/price.
func (h *ProductHandler) GetSubresource(w http.ResponseWriter, r *http.Request) {
	first, second := r.PathValue("first"), r.PathValue("second")
	switch {
	case first == "category":
		h.list(w, r, store.ProductFilter{Category: second})
	case second == "price":
		h.price(w, r, first)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, filter store.ProductFilter) {
	products, err := h.products.GetProducts(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list products", "category", filter.Category, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type priceResponse struct {
	ProductID   string          `json:"productId"`
	Weight      json.Number     `json:"weight"`
	Purity      string          `json:"purity"`
	Material    domain.Material `json:"material"`
	RatePerGram string          `json:"ratePerGram"`
	TotalPrice  string          `json:"totalPrice"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (h *ProductHandler) price(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := h.lookup(w, r, id)
	if !ok {
		return
	}
	q, err := h.pricer.PriceFor(r.Context(), p)
	if err != nil {
		if errors.Is(err, pricing.ErrRateUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "rate unavailable for "+string(p.Material))
			return
		}
		slog.Error("failed to price product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{
		ProductID:   q.ProductID,
		Weight:      json.Number(domain.FormatWeight(q.Weight)),
		Purity:      q.Purity,
		Material:    q.Material,
		RatePerGram: domain.FormatMoney(q.RatePerGram),
		TotalPrice:  domain.FormatMoney(q.TotalPrice),
		UpdatedAt:   q.ObservedAt,
	})
}

func (h *ProductHandler) lookup(w http.ResponseWriter, r *http.Request, id string) (domain.Product, bool) {
	p, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return domain.Product{}, false
		}
		slog.Error("failed to get product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return domain.Product{}, false
	}
	return p, true
}

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Weight      decimal.Decimal `json:"weight"`
	Purity      string          `json:"purity"`
	Material    domain.Material `json:"material"`
	ImageURL    string          `json:"imageUrl"`
	ImageURLs   []string        `json:"imageUrls"`
	Featured    bool            `json:"featured"`
	Region      string          `json:"region"`
	InStock     bool            `json:"inStock"`
}

func requestFromProduct(p domain.Product) productRequest {
	return productRequest{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Weight:      p.Weight,
		Purity:      p.Purity,
		Material:    p.Material,
		ImageURL:    p.ImageURL,
		ImageURLs:   p.ImageURLs,
		Featured:    p.Featured,
		Region:      p.Region,
		InStock:     p.InStock,
	}
}

// product validates the request with the same rules as imported drafts.
func (req productRequest) product() (domain.Product, error) {
	draft := domain.CatalogDraft{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Weight:      req.Weight,
		InStock:     req.InStock,
		Material:    req.Material,
		Purity:      req.Purity,
		Region:      req.Region,
		Featured:    req.Featured,
	}
	if err := catalog.Validate(draft); err != nil {
		return domain.Product{}, err
	}
	p := draft.ToProduct()
	p.ImageURLs = req.ImageURLs
	return p, nil
}

// CreateProduct handles POST /api/products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req := productRequest{InStock: true}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := req.product()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.products.InsertProduct(r.Context(), p)
	if err != nil {
		slog.Error("failed to create product", "name", p.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/products/{id}. Fields absent from the body keep their stored values.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, ok := h.lookup(w, r, id)
	if !ok {
		return
	}

	req := requestFromProduct(existing)
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := req.product()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	updated, err := h.products.UpsertProduct(r.Context(), p)
	if err != nil {
		slog.Error("failed to update product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		slog.Error("failed to delete product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
