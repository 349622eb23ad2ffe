package remote

import (
	"context"
	"net/http"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
)

// CartClient manages the authenticated user's cart lines.
type CartClient struct {
	c *Client
}

// NewCartClient creates a cart client over c.
func NewCartClient(c *Client) *CartClient {
	return &CartClient{c: c}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// List returns the cart lines. An unrecognised payload yields an empty cart.
func (cc *CartClient) List(ctx context.Context, token string) ([]domain.CartLine, error) {
	data, err := cc.c.call(ctx, "cart list", http.MethodGet, "/cart", token, nil)
	if err != nil {
		return nil, err
	}
	lines, err := normalizeLines(data)
	if err != nil {
		cc.c.malformed(ctx, "cart list", err)
		return []domain.CartLine{}, nil
	}
	return lines, nil
}

// SetQuantity sets the quantity of id. Callers send n > 0; zero goes through Remove.
func (cc *CartClient) SetQuantity(ctx context.Context, token, id string, n int) error {
	_, err := cc.c.call(ctx, "cart set quantity", http.MethodPost, itemPath("cart", id), token, quantityRequest{Quantity: n})
	return err
}

// Remove drops the line for id.
func (cc *CartClient) Remove(ctx context.Context, token, id string) error {
	_, err := cc.c.call(ctx, "cart remove", http.MethodDelete, itemPath("cart", id), token, nil)
	return err
}
