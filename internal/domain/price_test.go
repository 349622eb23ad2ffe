package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceTier_Label(t *testing.T) {
	assert.Equal(t, "On-Site Price", TierOnSite.Label())
	assert.Equal(t, "Delivery Price", TierDelivery.Label())
	assert.Equal(t, "Pallet Complete Onsite", TierPalletOnSite.Label())
	assert.Equal(t, "Pallet Complete Delivery", TierPalletDelivery.Label())
	assert.Equal(t, "Price List 4", PriceTier(4).Label())
	assert.False(t, PriceTier(4).Known())
}

func TestParsePriceTier(t *testing.T) {
	tests := []struct {
		in   string
		want PriceTier
	}{
		{"1", TierOnSite},
		{" 2 ", TierDelivery},
		{"delivery", TierDelivery},
		{"Pallet-Onsite", TierPalletOnSite},
		{"5", TierPalletDelivery},
		{"9", PriceTier(9)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriceTier(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "0", "-2", "gold"} {
		_, err := ParsePriceTier(bad)
		assert.Error(t, err, bad)
	}
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 0, ClampQuantity(-5))
	assert.Equal(t, 0, ClampQuantity(0))
	assert.Equal(t, 42, ClampQuantity(42))
	assert.Equal(t, MaxLineQuantity, ClampQuantity(1000))
}

func TestAddQuantity(t *testing.T) {
	assert.Equal(t, 7, AddQuantity(5, 2))
	assert.Equal(t, 0, AddQuantity(5, -9))
	assert.Equal(t, MaxLineQuantity, AddQuantity(5, math.MaxInt))
	assert.Equal(t, 0, AddQuantity(5, math.MinInt))
	assert.Equal(t, MaxLineQuantity, AddQuantity(math.MaxInt, 1))
	assert.Equal(t, 4, AddQuantity(math.MaxInt, -995))
}
