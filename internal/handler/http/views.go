package http

import (
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/cart"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/identity"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/session"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/wishlist"
)

type wishlistView struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
	Mode  string   `json:"mode"`
}

func newWishlistView(e *wishlist.Engine) wishlistView {
	items := e.Items()
	if items == nil {
		items = []string{}
	}
	return wishlistView{Items: items, Count: len(items), Mode: e.Mode().String()}
}

type cartView struct {
	Lines         []domain.CartLine `json:"lines"`
	Count         int               `json:"count"`
	TotalQuantity int               `json:"totalQuantity"`
	Mode          string            `json:"mode"`
}

func newCartView(e *cart.Engine) cartView {
	lines := e.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return cartView{Lines: lines, Count: len(lines), TotalQuantity: total, Mode: e.Mode().String()}
}

type sessionView struct {
	ID       string         `json:"id"`
	State    string         `json:"state"`
	User     *identity.User `json:"user,omitempty"`
	Wishlist wishlistView   `json:"wishlist"`
	Cart     cartView       `json:"cart"`
	// Warnings lists sync failures that did not undo the identity change.
	Warnings []string `json:"warnings,omitempty"`
}

func newSessionView(s *session.Session) sessionView {
	creds := s.Identity.Current()
	v := sessionView{
		ID:       s.ID,
		State:    creds.State.String(),
		Wishlist: newWishlistView(s.Wishlist),
		Cart:     newCartView(s.Cart),
	}
	if creds.Authenticated() {
		u := s.Identity.User()
		v.User = &u
	}
	return v
}

type wishlistItemView struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
	Pending    bool   `json:"pending"`
}

type cartItemView struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Pending   bool   `json:"pending"`
}
