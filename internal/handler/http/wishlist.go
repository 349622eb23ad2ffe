package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/httputil"
)

// WishlistHandler serves the session's wishlist.
type WishlistHandler struct {
	logger *slog.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{logger: logger}
}

// List handles GET /api/v1/wishlist. With ?refresh=true the set is
// re-hydrated from its source first.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	if r.URL.Query().Get("refresh") == "true" {
		if err := s.Wishlist.Refresh(r.Context()); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	httputil.WriteData(w, http.StatusOK, newWishlistView(s.Wishlist))
}

// Get handles GET /api/v1/wishlist/{id}.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	httputil.WriteData(w, http.StatusOK, wishlistItemView{
		ProductID:  id,
		InWishlist: s.Wishlist.Contains(id),
		Pending:    s.Wishlist.Pending(id),
	})
}

// Add handles PUT /api/v1/wishlist/{id}.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := s.Wishlist.Add(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistItemView{ProductID: id, InWishlist: true})
}

// Remove handles DELETE /api/v1/wishlist/{id}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := s.Wishlist.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistItemView{ProductID: id, InWishlist: false})
}

// Toggle handles POST /api/v1/wishlist/{id}/toggle. A toggle that arrives
// while another is in flight for the same id joins it.
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	saved, err := s.Wishlist.Toggle(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, wishlistItemView{ProductID: id, InWishlist: saved})
}

// Clear handles DELETE /api/v1/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s, _ := sessionFromContext(r.Context())
	if err := s.Wishlist.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newWishlistView(s.Wishlist))
}
