package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
)

// DefaultCurrencySymbol prefixes formatted prices unless configured otherwise.
const DefaultCurrencySymbol = "€"

// Format renders v with the currency symbol and exactly two decimals,
// rounding half away from zero ("€10.50").
func Format(v float64, symbol string) string {
	return symbol + decimal.NewFromFloat(sanitize(v)).StringFixed(2)
}

// Resolver binds a default tier and currency symbol so call sites in handlers
// do not have to thread them through.
type Resolver struct {
	Tier   domain.PriceTier
	Symbol string
}

// NewResolver creates a Resolver, falling back to the on-site tier and the
// default symbol for zero values.
func NewResolver(tier domain.PriceTier, symbol string) Resolver {
	if tier <= 0 {
		tier = domain.TierOnSite
	}
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return Resolver{Tier: tier, Symbol: symbol}
}

// Price resolves p at the bound tier.
func (r Resolver) Price(p *domain.Product) float64 {
	return Resolve(p, r.Tier)
}

// PriceAt resolves p at an explicit tier.
func (r Resolver) PriceAt(p *domain.Product, tier domain.PriceTier) float64 {
	return Resolve(p, tier)
}

// Display resolves and formats p at the bound tier.
func (r Resolver) Display(p *domain.Product) string {
	return Format(r.Price(p), r.Symbol)
}

// Quote is a resolved price ready for the UI.
type Quote struct {
	ProductID string           `json:"productId"`
	Tier      domain.PriceTier `json:"tier"`
	TierLabel string           `json:"tierLabel"`
	Amount    float64          `json:"amount"`
	Display   string           `json:"display"`
}

// Quote resolves p at tier (or the bound tier when tier is zero).
func (r Resolver) Quote(p *domain.Product, tier domain.PriceTier) Quote {
	if tier <= 0 {
		tier = r.Tier
	}
	amount := Resolve(p, tier)
	q := Quote{
		Tier:      tier,
		TierLabel: tier.Label(),
		Amount:    amount,
		Display:   Format(amount, r.Symbol),
	}
	if p != nil {
		q.ProductID = p.ID
	}
	return q
}
