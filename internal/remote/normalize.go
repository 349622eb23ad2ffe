package remote

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
	apperrors "github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/errors"
)

// Envelope keys a list may be wrapped under, tried in order. A wrapped value
// may itself be an object holding the list under "items".
var envelopeKeys = []string{"wishlist", "cart", "data", "items", "categories"}

// Keys an entity may carry its id under. A nested "product" reference is
// preferred so that line items resolve to the product they point at.
var entityIDKeys = []string{"productId", "_id", "id"}

// unwrapList finds the list inside any of the accepted response shapes.
func unwrapList(data []byte) ([]json.RawMessage, error) {
	return unwrap(bytes.TrimSpace(data), 0)
}

func unwrap(data []byte, depth int) ([]json.RawMessage, error) {
	if depth > 3 {
		return nil, apperrors.MalformedResponse("list nested too deeply")
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []json.RawMessage{}, nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, apperrors.MalformedResponse("response is neither a list nor an object")
	}
	for _, k := range envelopeKeys {
		if v, ok := obj[k]; ok {
			return unwrap(bytes.TrimSpace(v), depth+1)
		}
	}
	return nil, apperrors.MalformedResponse("no list found in response object")
}

// elementID coerces a bare id or an entity down to its string id.
func elementID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return ""
	}
	if ref, ok := obj["product"]; ok {
		if id := elementID(ref); id != "" {
			return id
		}
	}
	for _, k := range entityIDKeys {
		if v, ok := obj[k]; ok {
			if id := elementID(v); id != "" {
				return id
			}
		}
	}
	return ""
}

// normalizeIDs reduces a list response to unique ids in response order.
func normalizeIDs(data []byte) ([]string, error) {
	elems, err := unwrapList(data)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(elems))
	ids := make([]string, 0, len(elems))
	for _, e := range elems {
		id := elementID(e)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// normalizeLines reduces a cart response to lines. Repeated product ids are
// summed; a line without a quantity counts as one unit.
func normalizeLines(data []byte) ([]domain.CartLine, error) {
	elems, err := unwrapList(data)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(elems))
	lines := make([]domain.CartLine, 0, len(elems))
	for _, e := range elems {
		id := elementID(e)
		if id == "" {
			continue
		}
		qty := lineQuantity(e)
		if i, ok := index[id]; ok {
			lines[i].Quantity = domain.AddQuantity(lines[i].Quantity, qty)
			continue
		}
		if qty <= 0 {
			continue
		}
		index[id] = len(lines)
		lines = append(lines, domain.CartLine{ProductID: id, Quantity: domain.ClampQuantity(qty)})
	}
	return lines, nil
}

func lineQuantity(raw json.RawMessage) int {
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return 1
	}
	for _, k := range []string{"quantity", "qty"} {
		v, ok := obj[k]
		if !ok {
			continue
		}
		var n json.Number
		if json.Unmarshal(v, &n) == nil {
			if f, err := strconv.ParseFloat(n.String(), 64); err == nil {
				return int(f)
			}
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			if q, err := strconv.Atoi(s); err == nil {
				return q
			}
		}
		return 0
	}
	return 1
}
