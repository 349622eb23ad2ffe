package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/catalog"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/pricing"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httputil"
)

// Categories serves the cached category list.
type Categories interface {
	Get(ctx context.Context) ([]domain.Category, error)
	Invalidate()
}

// CatalogHandler serves the stateless catalog, pricing and category
// endpoints. None of them need a session.
type CatalogHandler struct {
	categories Categories
	prices     pricing.Resolver
	logger     *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(categories Categories, prices pricing.Resolver, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{categories: categories, prices: prices, logger: logger}
}

type deriveRequest struct {
	Products []domain.Product `json:"products" validate:"max=10000"`
	Params   catalog.Params   `json:"params"`
	// ClampPage moves an out-of-range page index back to the last page.
	ClampPage bool `json:"clampPage"`
}

// pricedProduct must not embed domain.Product: its MarshalJSON would be promoted.
type pricedProduct struct {
	Product domain.Product `json:"product"`
	Price   pricing.Quote  `json:"price"`
}

type resolveRequest struct {
	Products []domain.Product `json:"products" validate:"required,max=10000"`
	Tier     domain.PriceTier `json:"tier" validate:"gte=0"`
}

type resolvedPrice struct {
	pricing.Quote
	AvailableTiers []tierView `json:"availableTiers"`
}

type tierView struct {
	Tier  domain.PriceTier `json:"tier"`
	Label string           `json:"label"`
}

// Derive handles POST /api/v1/catalog/derive: filter, search, sort and
// paginate the posted collection. Each visible product carries its price at
// the requested tier.
func (h *CatalogHandler) Derive(w http.ResponseWriter, r *http.Request) {
	var req deriveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if err := req.Params.Validate(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res := catalog.Derive(req.Products, req.Params)
	if req.ClampPage {
		if clamped := catalog.ClampPage(res.PageIndex, res.TotalCount, res.PageSize); clamped != res.PageIndex {
			req.Params.PageIndex = clamped
			res = catalog.Derive(req.Products, req.Params)
		}
	}

	items := make([]pricedProduct, len(res.Visible))
	for i := range res.Visible {
		items[i] = pricedProduct{
			Product: res.Visible[i],
			Price:   h.prices.Quote(&res.Visible[i], req.Params.Tier),
		}
	}
	httputil.WriteData(w, http.StatusOK, httputil.NewPaginatedResponse(items, res.TotalCount, res.PageIndex, res.PageSize))
}

// Resolve handles POST /api/v1/pricing/resolve: the display price of every
// posted product at one tier, in request order.
func (h *CatalogHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]resolvedPrice, len(req.Products))
	for i := range req.Products {
		p := &req.Products[i]
		tiers := pricing.AvailableTiers(p)
		views := make([]tierView, len(tiers))
		for j, t := range tiers {
			views[j] = tierView{Tier: t, Label: t.Label()}
		}
		out[i] = resolvedPrice{Quote: h.prices.Quote(p, req.Tier), AvailableTiers: views}
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// Categories handles GET /api/v1/categories. Inactive categories are hidden
// unless ?all=true; ?refresh=true drops the cached list first.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("refresh") == "true" {
		h.categories.Invalidate()
	}

	list, err := h.categories.Get(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if q.Get("all") != "true" {
		active := make([]domain.Category, 0, len(list))
		for i := range list {
			if list[i].Active() {
				active = append(active, list[i])
			}
		}
		list = active
	}
	httputil.WriteData(w, http.StatusOK, list)
}
