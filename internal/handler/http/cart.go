package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httputil"
)

// CartHandler serves the session's cart.
type CartHandler struct {
	logger *slog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(logger *slog.Logger) *CartHandler {
	return &CartHandler{logger: logger}
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type addItemRequest struct {
	Delta *int `json:"delta" validate:"omitempty,ne=0,min=-999,max=999"`
}

// List handles GET /api/v1/cart. With ?refresh=true the cart is re-hydrated
// from its source first.
func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	if r.URL.Query().Get("refresh") == "true" {
		if err := s.Cart.Refresh(r.Context()); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	httputil.WriteData(w, http.StatusOK, newCartView(s.Cart))
}

// Get handles GET /api/v1/cart/{id}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	httputil.WriteData(w, http.StatusOK, cartItemView{
		ProductID: id,
		Quantity:  s.Cart.Quantity(id),
		Pending:   s.Cart.Pending(id),
	})
}

// SetQuantity handles PUT /api/v1/cart/{id}. Quantities above the line
// maximum are clamped; zero removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req setQuantityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := s.Cart.SetQuantity(r.Context(), id, *req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartItemView{ProductID: id, Quantity: s.Cart.Quantity(id)})
}

// Add handles POST /api/v1/cart/{id}. The body {"delta": n} is optional and
// defaults to one unit; a negative delta decrements.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")

	delta := 1
	if r.ContentLength != 0 {
		var req addItemRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		if req.Delta != nil {
			delta = *req.Delta
		}
	}

	if err := s.Cart.Add(r.Context(), id, delta); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartItemView{ProductID: id, Quantity: s.Cart.Quantity(id)})
}

// Remove handles DELETE /api/v1/cart/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := s.Cart.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, cartItemView{ProductID: id})
}

// Clear handles DELETE /api/v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	if err := s.Cart.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newCartView(s.Cart))
}
