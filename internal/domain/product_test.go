package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeProduct(t *testing.T, raw string) Product {
	t.Helper()
	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestProduct_Unmarshal_PricesArray(t *testing.T) {
	p := decodeProduct(t, `{
		"_id": "64f0c1",
		"ItemName": "Dark Chocolate 70%",
		"ItemCode": "CH-070",
		"ItemsGroupCode": 112,
		"quantityOnStock": 40,
		"status": "Active",
		"createdAt": "2024-03-01T10:00:00Z",
		"prices": [
			{"priceList": 1, "price": 9.99, "currency": "EUR"},
			{"priceList": "2", "price": "10.50", "currency": "EUR"}
		]
	}`)

	assert.Equal(t, "64f0c1", p.ID)
	assert.Equal(t, "Dark Chocolate 70%", p.Name)
	assert.Equal(t, "CH-070", p.ItemCode)
	assert.Equal(t, "112", p.GroupCode)
	assert.Equal(t, 40, p.Stock)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.Active())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), p.CreatedAt)

	require.Len(t, p.Prices, 1)
	assert.Equal(t, PriceSourcePrices, p.Prices.Primary())
	assert.Equal(t, []TierPrice{
		{Tier: TierOnSite, Amount: "9.99", Currency: "EUR"},
		{Tier: TierDelivery, Amount: "10.50", Currency: "EUR"},
	}, p.Prices[0].Entries)
}

func TestProduct_Unmarshal_AllSourcesKeepPrecedence(t *testing.T) {
	p := decodeProduct(t, `{
		"id": 7,
		"price": "€5",
		"itemPrices": [{"priceList": 3, "price": 4}],
		"prices": [{"priceList": 1, "price": 3}]
	}`)

	assert.Equal(t, "7", p.ID)
	assert.Equal(t, []PriceSourceKind{PriceSourcePrices, PriceSourceItemPrices, PriceSourceScalar}, p.Prices.Kinds())
	assert.Equal(t, "€5", p.Prices[2].Scalar)
}

func TestProduct_Unmarshal_NonListPricesIgnored(t *testing.T) {
	p := decodeProduct(t, `{"id": "x", "prices": {"priceList": 1}, "price": 12}`)

	assert.Equal(t, []PriceSourceKind{PriceSourceScalar}, p.Prices.Kinds())
	assert.Equal(t, "12", p.Prices[0].Scalar)
}

func TestProduct_Unmarshal_NoPrice(t *testing.T) {
	p := decodeProduct(t, `{"id": "x", "name": "Bare", "price": null}`)

	assert.Empty(t, p.Prices)
	assert.Equal(t, PriceSourceAbsent, p.Prices.Primary())
}

func TestProduct_Unmarshal_MalformedEntriesSkipped(t *testing.T) {
	p := decodeProduct(t, `{"id": "x", "prices": [null, {"price": 3}, {"priceList": 2, "price": "abc"}]}`)

	require.Len(t, p.Prices, 1)
	assert.Equal(t, []TierPrice{{Tier: TierDelivery, Amount: "abc"}}, p.Prices[0].Entries)
}

func TestProduct_Unmarshal_NonObjectEntrySkipped(t *testing.T) {
	p := decodeProduct(t, `{"id": "x", "prices": [{"priceList": 1, "price": "3"}, 7, "x", [1]]}`)

	require.Len(t, p.Prices, 1)
	assert.Equal(t, PriceSourcePrices, p.Prices[0].Kind)
	assert.Equal(t, []TierPrice{{Tier: TierOnSite, Amount: "3"}}, p.Prices[0].Entries)
}

func TestProduct_Unmarshal_StatusFromBoolean(t *testing.T) {
	assert.Equal(t, StatusInactive, decodeProduct(t, `{"id":"a","isActive":false}`).Status)
	assert.Equal(t, StatusActive, decodeProduct(t, `{"id":"a","active":true}`).Status)
	assert.Equal(t, "", decodeProduct(t, `{"id":"a"}`).Status)
	inactive := decodeProduct(t, `{"id":"a","isActive":false}`)
	assert.False(t, inactive.Active())
}

func TestProduct_Unmarshal_StockAndCategoryVariants(t *testing.T) {
	p := decodeProduct(t, `{"id":"a","stock":"12","category":{"name":"Bakery"},"created_at":1700000000000}`)

	assert.Equal(t, 12, p.Stock)
	assert.True(t, p.InStock())
	assert.Equal(t, "Bakery", p.Category)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), p.CreatedAt)
}

func TestProduct_Unmarshal_RejectsNonObject(t *testing.T) {
	var p Product
	require.Error(t, json.Unmarshal([]byte(`["not","an","object"]`), &p))
}

func TestProduct_MarshalRoundTrip(t *testing.T) {
	in := decodeProduct(t, `{
		"_id": "p1", "name": "Milk", "groupCode": "5", "stock": 3,
		"itemPrices": [{"priceList": 2, "price": "1.20", "currency": "EUR"}],
		"price": "$1.10"
	}`)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Product
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestCategory_UnmarshalJSON(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","categoryName":"Sweets","ItemsGroupCode":104,"isActive":false}`), &c))
	assert.Equal(t, Category{ID: "c1", Name: "Sweets", Slug: "sweets", GroupCode: "104", Status: StatusInactive}, c)
	assert.False(t, c.Active())

	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Flour"}`), &c))
	assert.Equal(t, "7", c.ID)
	assert.True(t, c.Active())
}

func TestCategory_Slug(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c2","name":"Fruits & Légumes"}`), &c))
	assert.Equal(t, "fruits-legumes", c.Slug)

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c3","name":"Épicerie","slug":"epicerie-fine"}`), &c))
	assert.Equal(t, "epicerie-fine", c.Slug)
}
