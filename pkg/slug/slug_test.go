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
		{"  Hello   World!  ", "hello-world"},
		{"Crème Brûlée", "creme-brulee"},
		{"Çocuk Ürünleri", "cocuk-urunleri"},
		{"顏色", "顏色"},
		{"尺寸 / XL", "尺寸-xl"},
		{"---", ""},
		{"", ""},
		{"Size 42", "size-42"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	once := Generate("Midnight Blue / Large")
	assert.Equal(t, once, Generate(once))
}
