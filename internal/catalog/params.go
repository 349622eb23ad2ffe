package catalog

import (
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/pagination"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/validator"
)

// StatusFilter restricts the collection by listing or stock status.
type StatusFilter string

// Status filters.
const (
	StatusAll        StatusFilter = "all"
	StatusActive     StatusFilter = "active"
	StatusInactive   StatusFilter = "inactive"
	StatusInStock    StatusFilter = "in-stock"
	StatusOutOfStock StatusFilter = "out-of-stock"
)

// SortKey selects the comparator applied after filtering.
type SortKey string

// Sort keys.
const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortName      SortKey = "name"
	SortCode      SortKey = "code"
	SortGroupCode SortKey = "groupCode"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortStock     SortKey = "stock"
)

// PriceRange bounds the resolved price. Min is inclusive; a nil Max is unbounded.
type PriceRange struct {
	Min float64  `json:"min" validate:"gte=0"`
	Max *float64 `json:"max" validate:"omitempty,gte=0"`
}

// Params drives one derivation. All fields are re-applied together on every call.
type Params struct {
	SearchText string           `json:"searchText" validate:"max=200"`
	Status     StatusFilter     `json:"statusFilter" validate:"omitempty,oneof=all active inactive in-stock out-of-stock"`
	PriceRange *PriceRange      `json:"priceRange,omitempty"`
	Tier       domain.PriceTier `json:"tier" validate:"gte=0"`
	SortKey    SortKey          `json:"sortKey" validate:"omitempty,oneof=newest oldest name code groupCode price-low price-high stock"`
	PageIndex  int              `json:"pageIndex" validate:"gte=0"`
	PageSize   int              `json:"pageSize" validate:"gte=0,lte=200"`
}

// Validate checks the struct tags and the range ordering.
func (p Params) Validate() error {
	if err := validator.Validate(p); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if r := p.PriceRange; r != nil && r.Max != nil && *r.Max < r.Min {
		return apperrors.InvalidInput("priceRange.max must not be below priceRange.min")
	}
	return nil
}

func (p Params) pageSize() int {
	if p.PageSize <= 0 {
		return pagination.DefaultParams().PageSize
	}
	return p.PageSize
}

func (p Params) tier() domain.PriceTier {
	if p.Tier <= 0 {
		return domain.TierOnSite
	}
	return p.Tier
}
