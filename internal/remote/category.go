package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
)

// CategoryClient lists catalog categories. The endpoint is public.
type CategoryClient struct {
	c *Client
}

// NewCategoryClient creates a category client over c.
func NewCategoryClient(c *Client) *CategoryClient {
	return &CategoryClient{c: c}
}

// List returns every category the API exposes. Entries that fail to decode
// are skipped.
func (cc *CategoryClient) List(ctx context.Context) ([]domain.Category, error) {
	data, err := cc.c.call(ctx, "category list", http.MethodGet, "/categories", "", nil)
	if err != nil {
		return nil, err
	}
	elems, err := unwrapList(data)
	if err != nil {
		cc.c.malformed(ctx, "category list", err)
		return []domain.Category{}, nil
	}

	out := make([]domain.Category, 0, len(elems))
	for _, e := range elems {
		var cat domain.Category
		if err := json.Unmarshal(e, &cat); err != nil || cat.ID == "" {
			cc.c.logger.DebugContext(ctx, "skipping category entry", slog.String("raw", string(e)))
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}
