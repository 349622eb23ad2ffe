package remote

import (
	"context"
	"net/http"
)

// WishlistClient manages the authenticated user's saved items.
type WishlistClient struct {
	c *Client
}

// NewWishlistClient creates a wishlist client over c.
func NewWishlistClient(c *Client) *WishlistClient {
	return &WishlistClient{c: c}
}

// List returns the saved product ids. An unrecognised payload yields an
// empty list.
func (w *WishlistClient) List(ctx context.Context, token string) ([]string, error) {
	data, err := w.c.call(ctx, "wishlist list", http.MethodGet, "/wishlist", token, nil)
	if err != nil {
		return nil, err
	}
	ids, err := normalizeIDs(data)
	if err != nil {
		w.c.malformed(ctx, "wishlist list", err)
		return []string{}, nil
	}
	return ids, nil
}

// Add saves id.
func (w *WishlistClient) Add(ctx context.Context, token, id string) error {
	_, err := w.c.call(ctx, "wishlist add", http.MethodPost, itemPath("wishlist", id), token, nil)
	return err
}

// Remove unsaves id.
func (w *WishlistClient) Remove(ctx context.Context, token, id string) error {
	_, err := w.c.call(ctx, "wishlist remove", http.MethodDelete, itemPath("wishlist", id), token, nil)
	return err
}
