package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"ALL UPPER CASE", "all-upper-case"},
		{"Crème Brûlée", "creme-brulee"},
		{"Pâtisserie & Viennoiserie", "patisserie-viennoiserie"},
		{"Çocuk Ürünleri", "cocuk-urunleri"},
		{"Kadın Giyim", "kadin-giyim"},
		{"Straße", "strasse"},
		{"Œufs frais", "oeufs-frais"},
		{"  --Fruits   & Légumes--  ", "fruits-legumes"},
		{"Boissons 33cl", "boissons-33cl"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_Empty(t *testing.T) {
	assert.Equal(t, "", Generate(""))
	assert.Equal(t, "", Generate("   "))
	assert.Equal(t, "", Generate("!!!"))
}
