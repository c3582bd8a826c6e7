package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/purity"
	"github.com/mamde/storefront/internal/rates"
)

// RateHandler serves metal rate endpoints.
type RateHandler struct {
	rates RateService
}

// NewRateHandler creates a new rate handler.
func NewRateHandler(rates RateService) *RateHandler {
	return &RateHandler{rates: rates}
}

type rateResponse struct {
	Material  domain.Material `json:"material"`
	Rate      string          `json:"rate"`
	Change    string          `json:"change"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Source    string          `json:"source,omitempty"`
}

func toRateResponse(q domain.RateQuote) rateResponse {
	return rateResponse{
		Material:  q.Material,
		Rate:      domain.FormatMoney(q.RatePerGram),
		Change:    domain.FormatMoney(q.Change),
		UpdatedAt: q.ObservedAt,
		Source:    q.Source,
	}
}

type purityRateResponse struct {
	Purity      string `json:"purity"`
	RatePerGram string `json:"ratePerGram"`
}

type breakdownResponse struct {
	Material domain.Material      `json:"material"`
	Rate     string               `json:"rate"`
	Purities []purityRateResponse `json:"purities"`
}

// GetRates handles GET /api/rates.
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	quotes := h.rates.All(r.Context())
	resp := make([]rateResponse, 0, len(quotes))
	for _, q := range quotes {
		resp = append(resp, toRateResponse(q))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBreakdown handles GET /api/rates/breakdown.
func (h *RateHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	quotes := h.rates.All(r.Context())
	resp := make([]breakdownResponse, 0, len(quotes))
	for _, q := range quotes {
		b := breakdownResponse{Material: q.Material, Rate: domain.FormatMoney(q.RatePerGram)}
		for _, pr := range rates.Breakdown(q) {
			b.Purities = append(b.Purities, purityRateResponse{
				Purity:      pr.Purity,
				RatePerGram: domain.FormatMoney(pr.RatePerGram),
			})
		}
		resp = append(resp, b)
	}
	writeJSON(w, http.StatusOK, resp)
}

type purityResponse struct {
	Label  string `json:"label"`
	Factor string `json:"factor"`
}

// GetPurities handles GET /api/purities.
func (h *RateHandler) GetPurities(w http.ResponseWriter, r *http.Request) {
	labels := purity.Labels()
	resp := make([]purityResponse, 0, len(labels))
	for _, l := range labels {
		resp = append(resp, purityResponse{Label: l, Factor: purity.Factor(l).StringFixed(3)})
	}
	writeJSON(w, http.StatusOK, resp)
}

type updateRateRequest struct {
	Material string          `json:"material"`
	Rate     decimal.Decimal `json:"rate"`
	Change   decimal.Decimal `json:"change"`
}

// UpdateRate handles POST /api/rates/update.
func (h *RateHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	var req updateRateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	material, err := domain.ParseMaterial(req.Material)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Rate.IsPositive() {
		writeError(w, http.StatusBadRequest, "rate must be positive")
		return
	}

	saved, err := h.rates.Override(r.Context(), domain.RateQuote{
		Material:    material,
		RatePerGram: domain.RoundMoney(req.Rate),
		Change:      domain.RoundMoney(req.Change),
	})
	if err != nil {
		slog.Error("failed to override rate", "material", material, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	slog.Info("rate overridden", "material", material, "rate", saved.RatePerGram)
	writeJSON(w, http.StatusOK, toRateResponse(saved))
}
