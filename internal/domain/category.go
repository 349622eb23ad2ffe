package domain

import (
	"encoding/json"
	"fmt"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/slug"
)

// Category is a catalog grouping as listed by the remote API.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug,omitempty"`
	Status    string `json:"status,omitempty"`
	GroupCode string `json:"groupCode,omitempty"`
}

// Active reports whether the category is listed. A missing status counts as active.
func (c *Category) Active() bool {
	return c.Status == "" || c.Status == StatusActive
}

// UnmarshalJSON decodes the admin and storefront category shapes. A category
// without a slug gets one derived from its name.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode category: %w", err)
	}
	*c = Category{
		ID:        scalarText(pick(raw, idKeys)),
		Name:      scalarText(pick(raw, []string{"name", "categoryName", "Name"})),
		GroupCode: scalarText(pick(raw, []string{"ItemsGroupCode", "itemsGroupCode", "groupCode", "code"})),
		Status:    statusValue(raw),
	}
	c.Slug = scalarText(raw["slug"])
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	return nil
}
