package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PriceTier identifies a pricing context a product may carry a distinct price for.
// Values mirror the remote price-list numbers and are not contiguous.
type PriceTier int

// Known price tiers.
const (
	TierOnSite         PriceTier = 1
	TierDelivery       PriceTier = 2
	TierPalletOnSite   PriceTier = 3
	TierPalletDelivery PriceTier = 5
)

var tierLabels = map[PriceTier]string{
	TierOnSite:         "On-Site Price",
	TierDelivery:       "Delivery Price",
	TierPalletOnSite:   "Pallet Complete Onsite",
	TierPalletDelivery: "Pallet Complete Delivery",
}

var tierAliases = map[string]PriceTier{
	"onsite":          TierOnSite,
	"on-site":         TierOnSite,
	"delivery":        TierDelivery,
	"pallet-onsite":   TierPalletOnSite,
	"pallet-delivery": TierPalletDelivery,
}

// KnownTiers returns the tiers with a label, in ascending order.
func KnownTiers() []PriceTier {
	return []PriceTier{TierOnSite, TierDelivery, TierPalletOnSite, TierPalletDelivery}
}

// Label returns the human-readable name of the tier. Unknown tiers render as
// "Price List N" so that new remote price lists still display.
func (t PriceTier) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("Price List %d", int(t))
}

// Known reports whether t is one of the labelled tiers.
func (t PriceTier) Known() bool {
	_, ok := tierLabels[t]
	return ok
}

// ParsePriceTier accepts a price-list number ("2") or an alias ("delivery").
func ParsePriceTier(s string) (PriceTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty price tier")
	}
	if t, ok := tierAliases[s]; ok {
		return t, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unknown price tier %q", s)
	}
	return PriceTier(n), nil
}

// PriceSourceKind tags where a product's price information came from.
type PriceSourceKind int

// Price source kinds, in resolution precedence.
const (
	PriceSourceAbsent PriceSourceKind = iota
	PriceSourcePrices
	PriceSourceItemPrices
	PriceSourceScalar
)

func (k PriceSourceKind) String() string {
	switch k {
	case PriceSourcePrices:
		return "prices"
	case PriceSourceItemPrices:
		return "itemPrices"
	case PriceSourceScalar:
		return "price"
	default:
		return "absent"
	}
}

// TierPrice is one entry of a tier-keyed price list. Amount keeps the remote
// text verbatim (numbers are rendered with strconv) so that parsing rules live
// in one place.
type TierPrice struct {
	Tier     PriceTier `json:"priceList"`
	Amount   string    `json:"price"`
	Currency string    `json:"currency,omitempty"`
}

// PriceSource is one normalised price representation of a product.
type PriceSource struct {
	Kind    PriceSourceKind
	Entries []TierPrice // PriceSourcePrices, PriceSourceItemPrices
	Scalar  string      // PriceSourceScalar
}

// PriceSources lists a product's price representations in precedence order:
// prices, itemPrices, price. An empty chain means no price at all.
type PriceSources []PriceSource

// Kinds returns the tags of the chain, handy for logging and tests.
func (s PriceSources) Kinds() []PriceSourceKind {
	out := make([]PriceSourceKind, len(s))
	for i := range s {
		out[i] = s[i].Kind
	}
	return out
}

// Primary returns the highest-precedence source kind, or PriceSourceAbsent.
func (s PriceSources) Primary() PriceSourceKind {
	if len(s) == 0 {
		return PriceSourceAbsent
	}
	return s[0].Kind
}
