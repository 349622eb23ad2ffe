package domain

// MaxLineQuantity is the largest quantity a single cart line may hold.
const MaxLineQuantity = 999

// CartLine is one quantity-bearing cart entry.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ClampQuantity forces n into [0, MaxLineQuantity].
func ClampQuantity(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxLineQuantity:
		return MaxLineQuantity
	default:
		return n
	}
}

// AddQuantity returns ClampQuantity(n+delta) without overflowing for
// arbitrarily large operands.
func AddQuantity(n, delta int) int {
	delta = max(-MaxLineQuantity, min(delta, MaxLineQuantity))
	return ClampQuantity(ClampQuantity(n) + delta)
}
