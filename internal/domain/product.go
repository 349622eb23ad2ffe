package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Product statuses after normalisation.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Product is the storefront's read-only view of a catalog item. It is decoded
// from whatever shape the remote API sends and normalised once, at the boundary.
type Product struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	ItemCode  string       `json:"itemCode,omitempty"`
	GroupCode string       `json:"groupCode,omitempty"`
	Category  string       `json:"category,omitempty"`
	Status    string       `json:"status,omitempty"`
	Stock     int          `json:"stock"`
	CreatedAt time.Time    `json:"createdAt,omitzero"`
	Prices    PriceSources `json:"-"`
}

// Active reports whether the product is listed. Records without any status
// information are treated as active.
func (p *Product) Active() bool {
	return p.Status == "" || p.Status == StatusActive
}

// InStock reports whether at least one unit is on hand.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Field spellings observed across the storefront and admin payloads.
var (
	idKeys        = []string{"_id", "id", "productId"}
	nameKeys      = []string{"name", "ItemName", "itemName"}
	itemCodeKeys  = []string{"ItemCode", "itemCode", "code"}
	groupCodeKeys = []string{"ItemsGroupCode", "itemsGroupCode", "groupCode", "GroupCode"}
	categoryKeys  = []string{"category", "categoryName", "Category"}
	stockKeys     = []string{"stock", "quantityOnStock", "QuantityOnStock"}
	createdKeys   = []string{"createdAt", "created_at", "CreateDate"}
	activeKeys    = []string{"isActive", "active"}
)

// UnmarshalJSON decodes any of the known product shapes.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode product: %w", err)
	}

	*p = Product{}
	p.ID = scalarText(pick(raw, idKeys))
	p.Name = scalarText(pick(raw, nameKeys))
	p.ItemCode = scalarText(pick(raw, itemCodeKeys))
	p.GroupCode = scalarText(pick(raw, groupCodeKeys))
	p.Category = categoryText(pick(raw, categoryKeys))
	p.Stock = intValue(pick(raw, stockKeys))
	p.CreatedAt = timeValue(pick(raw, createdKeys))
	p.Status = statusValue(raw)

	if entries, ok := tierList(raw["prices"]); ok {
		p.Prices = append(p.Prices, PriceSource{Kind: PriceSourcePrices, Entries: entries})
	}
	if entries, ok := tierList(raw["itemPrices"]); ok {
		p.Prices = append(p.Prices, PriceSource{Kind: PriceSourceItemPrices, Entries: entries})
	}
	if v, ok := raw["price"]; ok && !isNull(v) {
		p.Prices = append(p.Prices, PriceSource{Kind: PriceSourceScalar, Scalar: scalarText(v)})
	}

	return nil
}

// MarshalJSON writes the canonical shape, keeping every price source under
// its original field name so the record decodes back to the same chain.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	out := struct {
		plain
		Prices     []TierPrice `json:"prices,omitempty"`
		ItemPrices []TierPrice `json:"itemPrices,omitempty"`
		Price      *string     `json:"price,omitempty"`
	}{plain: plain(p)}

	for _, src := range p.Prices {
		switch src.Kind {
		case PriceSourcePrices:
			out.Prices = nonNilEntries(src.Entries)
		case PriceSourceItemPrices:
			out.ItemPrices = nonNilEntries(src.Entries)
		case PriceSourceScalar:
			s := src.Scalar
			out.Price = &s
		}
	}
	return json.Marshal(out)
}

func nonNilEntries(e []TierPrice) []TierPrice {
	if e == nil {
		return []TierPrice{}
	}
	return e
}

func pick(raw map[string]json.RawMessage, keys []string) json.RawMessage {
	for _, k := range keys {
		if v, ok := raw[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

// scalarText renders a JSON string, number or bool as text. Objects and
// arrays yield "".
func scalarText(v json.RawMessage) string {
	if isNull(v) {
		return ""
	}
	var s string
	if json.Unmarshal(v, &s) == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if dec.Decode(&n) == nil {
		return n.String()
	}
	var b bool
	if json.Unmarshal(v, &b) == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// categoryText accepts a bare name or a populated {name: ...} reference.
func categoryText(v json.RawMessage) string {
	if s := scalarText(v); s != "" {
		return s
	}
	var ref struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(v, &ref) == nil {
		return ref.Name
	}
	return ""
}

func intValue(v json.RawMessage) int {
	s := scalarText(v)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func timeValue(v json.RawMessage) time.Time {
	s := scalarText(v)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

func statusValue(raw map[string]json.RawMessage) string {
	if s := strings.ToLower(strings.TrimSpace(scalarText(raw["status"]))); s != "" {
		return s
	}
	switch scalarText(pick(raw, activeKeys)) {
	case "true":
		return StatusActive
	case "false":
		return StatusInactive
	}
	return ""
}

// tierList decodes a price list. ok is false when the field is absent or not
// a JSON array; individual malformed entries are skipped.
func tierList(v json.RawMessage) ([]TierPrice, bool) {
	if isNull(v) {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return nil, false
	}

	out := make([]TierPrice, 0, len(elems))
	for _, elem := range elems {
		var item map[string]json.RawMessage
		if json.Unmarshal(elem, &item) != nil || item == nil {
			continue
		}
		tier := intValue(pick(item, []string{"priceList", "PriceList"}))
		if tier <= 0 {
			continue
		}
		out = append(out, TierPrice{
			Tier:     PriceTier(tier),
			Amount:   scalarText(pick(item, []string{"price", "Price"})),
			Currency: scalarText(pick(item, []string{"currency", "Currency"})),
		})
	}
	return out, true
}
