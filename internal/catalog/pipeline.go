// Package catalog derives the visible page of a product collection:
// filter, search, stable sort, paginate. Derive never mutates its input.
package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/pricing"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/pagination"
)

// Date layouts the search text is matched against.
var searchDateLayouts = []string{"2006-01-02", "02/01/2006", "Jan 2, 2006"}

// Result is the derived view of a collection.
type Result struct {
	Visible    []domain.Product `json:"visible"`
	TotalCount int              `json:"totalCount"`
	PageCount  int              `json:"pageCount"`
	PageIndex  int              `json:"pageIndex"`
	PageSize   int              `json:"pageSize"`
}

// Derive runs the pipeline. An out-of-range page index yields an empty
// Visible slice; use ClampPage to move back into range.
func Derive(products []domain.Product, params Params) Result {
	filtered := filterStatus(products, params)
	filtered = filterSearch(filtered, params.SearchText)
	sortProducts(filtered, params.SortKey, params.tier())

	size := params.pageSize()
	page := pagination.Slice(filtered, params.PageIndex, size)
	return Result{
		Visible:    page.Items,
		TotalCount: page.TotalCount,
		PageCount:  page.PageCount,
		PageIndex:  params.PageIndex,
		PageSize:   size,
	}
}

// ClampPage returns pageIndex pulled back into range for totalCount results.
func ClampPage(pageIndex, totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = pagination.DefaultParams().PageSize
	}
	return pagination.Clamp(pageIndex, totalCount, pageSize)
}

func filterStatus(products []domain.Product, params Params) []domain.Product {
	tier := params.tier()
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if !statusMatches(p, params.Status) {
			continue
		}
		if r := params.PriceRange; r != nil {
			price := pricing.Resolve(p, tier)
			if price < r.Min || (r.Max != nil && price > *r.Max) {
				continue
			}
		}
		out = append(out, *p)
	}
	return out
}

func statusMatches(p *domain.Product, f StatusFilter) bool {
	switch f {
	case StatusActive:
		return p.Active()
	case StatusInactive:
		return !p.Active()
	case StatusInStock:
		return p.InStock()
	case StatusOutOfStock:
		return !p.InStock()
	default:
		return true
	}
}

// filterSearch filters in place; in is always a fresh slice from filterStatus.
func filterSearch(in []domain.Product, text string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return in
	}
	out := in[:0]
	for i := range in {
		if searchMatches(&in[i], q) {
			out = append(out, in[i])
		}
	}
	return out
}

func searchMatches(p *domain.Product, q string) bool {
	for _, field := range []string{p.Name, p.ItemCode, p.GroupCode} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	if p.CreatedAt.IsZero() {
		return false
	}
	for _, layout := range searchDateLayouts {
		if strings.Contains(strings.ToLower(p.CreatedAt.Format(layout)), q) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, key SortKey, tier domain.PriceTier) {
	var compare func(a, b *domain.Product) int
	switch key {
	case SortNewest:
		compare = func(a, b *domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		compare = func(a, b *domain.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortName:
		compare = func(a, b *domain.Product) int { return strings.Compare(a.Name, b.Name) }
	case SortCode:
		compare = func(a, b *domain.Product) int { return strings.Compare(a.ItemCode, b.ItemCode) }
	case SortGroupCode:
		compare = func(a, b *domain.Product) int { return compareNumericText(a.GroupCode, b.GroupCode) }
	case SortPriceLow:
		compare = func(a, b *domain.Product) int { return cmp.Compare(pricing.Resolve(a, tier), pricing.Resolve(b, tier)) }
	case SortPriceHigh:
		compare = func(a, b *domain.Product) int { return cmp.Compare(pricing.Resolve(b, tier), pricing.Resolve(a, tier)) }
	case SortStock:
		compare = func(a, b *domain.Product) int { return cmp.Compare(a.Stock, b.Stock) }
	default:
		return
	}
	slices.SortStableFunc(products, func(a, b domain.Product) int { return compare(&a, &b) })
}

// compareNumericText orders group codes numerically. Codes that do not parse
// sort after every numeric code and keep their relative order.
func compareNumericText(a, b string) int {
	x, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return 1
	case errB != nil:
		return -1
	}
	return cmp.Compare(x, y)
}
