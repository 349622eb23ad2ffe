// Package pricing resolves a displayable price out of a product's price
// sources. Everything here is pure: no I/O, no shared state.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/domain"
)

// Resolve returns the price of p for the requested tier.
//
// Sources are tried in precedence order. A tier list yields the first entry
// whose tier matches and falls through to the next source when none does; a
// scalar price is stripped of everything but digits, '.' and '-' and parsed.
// Unparsable, negative or non-finite results collapse to 0, as does a product
// with no price at all.
func Resolve(p *domain.Product, tier domain.PriceTier) float64 {
	if p == nil {
		return 0
	}
	for _, src := range p.Prices {
		switch src.Kind {
		case domain.PriceSourcePrices, domain.PriceSourceItemPrices:
			for _, e := range src.Entries {
				if e.Tier == tier {
					return sanitize(parseLeadingFloat(e.Amount))
				}
			}
		case domain.PriceSourceScalar:
			return sanitize(parseLeadingFloat(stripNonNumeric(src.Scalar)))
		}
	}
	return 0
}

// AvailableTiers lists the distinct tiers p carries an explicit entry for, in
// first-seen order across its tier lists.
func AvailableTiers(p *domain.Product) []domain.PriceTier {
	if p == nil {
		return nil
	}
	seen := make(map[domain.PriceTier]bool)
	var out []domain.PriceTier
	for _, src := range p.Prices {
		for _, e := range src.Entries {
			if !seen[e.Tier] {
				seen[e.Tier] = true
				out = append(out, e.Tier)
			}
		}
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func stripNonNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
}

// parseLeadingFloat parses the longest numeric prefix of s after leading
// whitespace ("10.50 EUR" -> 10.5, "1.2.3" -> 1.2). No prefix yields NaN.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expDigits := exp
		for expDigits < len(s) && s[expDigits] >= '0' && s[expDigits] <= '9' {
			expDigits++
		}
		if expDigits > exp {
			end = expDigits
		}
	}
	// Only range errors are possible here, and ParseFloat then returns ±Inf,
	// which sanitize drops.
	v, _ := strconv.ParseFloat(s[:end], 64)
	return v
}
