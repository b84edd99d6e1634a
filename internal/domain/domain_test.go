package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(f float64) *float64 { return &f }
func ptrI(i int) *int         { return &i }

// ---------------------------------------------------------------------------
// Number
// ---------------------------------------------------------------------------

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    Number
		wantF   float64
		parseOK bool
	}{
		{`19.99`, "19.99", 19.99, true},
		{`"19.99"`, "19.99", 19.99, true},
		{`" 7 "`, " 7 ", 7, true},
		{`"abc"`, "abc", 0, false},
		{`"NaN"`, "NaN", 0, false},
		{`"Inf"`, "Inf", 0, false},
		{`"Infinity"`, "Infinity", 0, false},
		{`"19.99 USD"`, "19.99 USD", 19.99, true},
		{`"12abc"`, "12abc", 12, true},
		{`".5"`, ".5", 0.5, true},
		{`"-3e2kg"`, "-3e2kg", -300, true},
		{`"1e"`, "1e", 1, true},
		{`"5."`, "5.", 5, true},
		{`"0x10"`, "0x10", 0, true},
		{`"1e400"`, "1e400", 0, false},
		{`"$5"`, "$5", 0, false},
		{`null`, "", 0, true},
		{`""`, "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &n))
			assert.Equal(t, tt.want, n)

			f, ok := n.Float()
			assert.Equal(t, tt.parseOK, ok)
			assert.Equal(t, tt.wantF, f)
		})
	}
}

func TestNumber_UnmarshalJSON_RejectsNonScalar(t *testing.T) {
	var n Number
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &n))
}

func TestNumber_Int(t *testing.T) {
	got, ok := Number("5").Int()
	assert.True(t, ok)
	assert.Equal(t, 5, got)

	got, ok = Number("5.9").Int()
	assert.True(t, ok)
	assert.Equal(t, 5, got)

	got, ok = Number("3 pcs").Int()
	assert.True(t, ok)
	assert.Equal(t, 3, got)

	got, ok = Number("many").Int()
	assert.False(t, ok)
	assert.Zero(t, got)
}

func TestNumberOf(t *testing.T) {
	assert.Equal(t, Number("19.99"), NumberOf(19.99))
	assert.Equal(t, Number("5"), NumberOf(5))
}

// ---------------------------------------------------------------------------
// Image normalization
// ---------------------------------------------------------------------------

func TestStripInlineImage(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		stripped bool
	}{
		{"data:image/png;base64,AAAA", "", true},
		{"DATA:IMAGE/JPEG;base64,/9j/", "", true},
		{"  data:image/gif;base64,R0lG", "", true},
		{"https://cdn.example.com/red.png", "https://cdn.example.com/red.png", false},
		{"data:text/plain;base64,aGk=", "data:text/plain;base64,aGk=", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, stripped := StripInlineImage(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stripped, stripped)
		})
	}
}

// ---------------------------------------------------------------------------
// NormalizeSpecs
// ---------------------------------------------------------------------------

func TestNormalizeSpecs(t *testing.T) {
	in := []SpecInput{
		{
			Title: "Color",
			Options: []SpecOptionInput{
				{Name: "Red", Image: "data:image/png;base64,AAAA", Price: "10"},
				{Name: "Blue", Image: "https://img.example.com/blue.png", Stock: "3"},
			},
		},
		{
			Title:   "Size",
			Options: []SpecOptionInput{{Name: "M", Price: "cheap", Stock: "lots"}},
		},
	}

	specs, rep := NormalizeSpecs(in)

	require.Len(t, specs, 2)
	assert.Equal(t, "Color", specs[0].Title)
	assert.Equal(t, "", specs[0].Options[0].Image)
	assert.Equal(t, ptrF(10), specs[0].Options[0].Price)
	assert.Nil(t, specs[0].Options[0].Stock)
	assert.Equal(t, "https://img.example.com/blue.png", specs[0].Options[1].Image)
	assert.Nil(t, specs[0].Options[1].Price)
	assert.Equal(t, ptrI(3), specs[0].Options[1].Stock)
	assert.Equal(t, ptrF(0), specs[1].Options[0].Price)
	assert.Equal(t, ptrI(0), specs[1].Options[0].Stock)

	assert.Equal(t, Report{ImagesStripped: 1, PricesZeroed: 1, StocksZeroed: 1}, rep)
	assert.True(t, rep.Degraded())
}

func TestNormalizeSpecs_EmptyOptionsStayNonNil(t *testing.T) {
	specs, rep := NormalizeSpecs([]SpecInput{{Title: "Material"}})

	require.Len(t, specs, 1)
	assert.NotNil(t, specs[0].Options)
	assert.Empty(t, specs[0].Options)
	assert.False(t, rep.Degraded())
}

// ---------------------------------------------------------------------------
// NormalizeVariants
// ---------------------------------------------------------------------------

func TestNormalizeVariants_Example(t *testing.T) {
	var in []VariantInput
	raw := `[{"specs":{"Color":"Red"},"image":"data:image/png;base64,AAAA","price":"19.99","stock":5}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	variants, rep := NormalizeVariants(in, []string{"Color"})

	require.Len(t, variants, 1)
	assert.Equal(t, "", variants[0].Image)
	assert.Equal(t, 19.99, variants[0].Price)
	assert.Equal(t, 5, variants[0].Stock)
	assert.Equal(t, "color.red", variants[0].ID)
	assert.Equal(t, Report{ImagesStripped: 1}, rep)
}

func TestNormalizeVariants_NonNumericPriceIsZero(t *testing.T) {
	variants, rep := NormalizeVariants([]VariantInput{
		{ID: "v1", Specs: map[string]string{"Size": "L"}, Price: "n/a", Image: "https://x/y.png"},
	}, nil)

	require.Len(t, variants, 1)
	assert.Equal(t, float64(0), variants[0].Price)
	assert.Equal(t, "https://x/y.png", variants[0].Image)
	assert.Equal(t, "v1", variants[0].ID)
	assert.Equal(t, 1, rep.PricesZeroed)
}

func TestNormalizeVariants_CopiesSpecsMap(t *testing.T) {
	choices := map[string]string{"Color": "Red"}
	variants, _ := NormalizeVariants([]VariantInput{{Specs: choices}}, nil)

	choices["Color"] = "Blue"
	assert.Equal(t, "Red", variants[0].Specs["Color"])
}

// ---------------------------------------------------------------------------
// VariantID / Enumerate
// ---------------------------------------------------------------------------

func TestVariantID(t *testing.T) {
	choices := map[string]string{"Size": "M", "Color": "Midnight Blue", "Material": "Cotton"}

	assert.Equal(t, "color.midnight-blue_size.m_material.cotton", VariantID(choices, []string{"Color", "Size"}))
	assert.Equal(t, "color.midnight-blue_material.cotton_size.m", VariantID(choices, nil))
	assert.Equal(t, "", VariantID(nil, []string{"Color"}))
}

func TestVariantID_DistinctChoicesNeverCollide(t *testing.T) {
	titles := []string{"Color"}
	values := []string{"Red", "RED!", "red", "Red ", "★", "☆", "", "Midnight Blue", "Midnight-Blue", "midnight blue"}

	seen := make(map[string]string, len(values))
	for _, v := range values {
		id := VariantID(map[string]string{"Color": v}, titles)
		prev, dup := seen[id]
		assert.False(t, dup, "%q and %q share id %q", prev, v, id)
		seen[id] = v
	}

	assert.Equal(t, "color.red", VariantID(map[string]string{"Color": "Red"}, titles))
	assert.Regexp(t, `^color\.red~[0-9a-f]{12}$`, VariantID(map[string]string{"Color": "RED!"}, titles))
	assert.Regexp(t, `^color\.~[0-9a-f]{12}$`, VariantID(map[string]string{"Color": "★"}, titles))
	assert.Equal(t,
		VariantID(map[string]string{"Color": "★"}, titles),
		VariantID(map[string]string{"Color": "★"}, titles),
	)
}

func TestEnumerate_LookalikeOptionsKeepOwnValues(t *testing.T) {
	specs := []Spec{{Title: "Color", Options: []SpecOption{{Name: "Red"}, {Name: "RED!"}}}}
	first := Enumerate(specs, nil)
	require.Len(t, first, 2)
	require.NotEqual(t, first[0].ID, first[1].ID)
	first[1].Quantity = 5
	first[1].Price = 42

	again := Enumerate(specs, first)

	assert.Equal(t, 0, again[0].Quantity)
	assert.Zero(t, again[0].Price)
	assert.Equal(t, 5, again[1].Quantity)
	assert.Equal(t, float64(42), again[1].Price)
}

func TestEnumerate(t *testing.T) {
	specs := []Spec{
		{Title: "Color", Options: []SpecOption{
			{Name: "Red", Image: "https://img/red.png", Price: ptrF(10), Stock: ptrI(4)},
			{Name: "Blue", Price: ptrF(12)},
		}},
		{Title: "Empty"},
		{Title: "Size", Options: []SpecOption{
			{Name: "S", Image: "https://img/s.png", Stock: ptrI(2)},
			{Name: "L", Price: ptrF(2.5)},
		}},
	}

	variants := Enumerate(specs, nil)

	require.Len(t, variants, 4)
	ids := make([]string, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	assert.Equal(t, []string{"color.red_size.s", "color.red_size.l", "color.blue_size.s", "color.blue_size.l"}, ids)

	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, variants[0].Specs)
	assert.Equal(t, "https://img/red.png", variants[0].Image)
	assert.Equal(t, float64(10), variants[0].Price)
	assert.Equal(t, 2, variants[0].Stock)

	assert.Equal(t, 12.5, variants[1].Price)
	assert.Equal(t, 14.5, variants[3].Price)
	assert.Equal(t, 0, variants[3].Stock)
	assert.Equal(t, "", variants[3].Image)
	assert.Equal(t, "https://img/s.png", variants[2].Image)
}

func TestEnumerate_KeepsExistingValues(t *testing.T) {
	specs := []Spec{{Title: "Color", Options: []SpecOption{{Name: "Red"}, {Name: "Green"}}}}
	existing := []Variant{
		{ID: "color.red", Specs: map[string]string{"Color": "Red"}, Price: 99, Stock: 7, Quantity: 2, Image: "https://img/r.png"},
		{ID: "color.gone", Specs: map[string]string{"Color": "Gone"}, Price: 1},
	}

	variants := Enumerate(specs, existing)

	require.Len(t, variants, 2)
	assert.Equal(t, float64(99), variants[0].Price)
	assert.Equal(t, 7, variants[0].Stock)
	assert.Equal(t, 2, variants[0].Quantity)
	assert.Equal(t, "https://img/r.png", variants[0].Image)
	assert.Equal(t, "color.green", variants[1].ID)
	assert.Zero(t, variants[1].Price)
}

func TestEnumerate_NoSpecs(t *testing.T) {
	variants := Enumerate(nil, nil)
	assert.NotNil(t, variants)
	assert.Empty(t, variants)
}

func TestFindVariant(t *testing.T) {
	variants := []Variant{{ID: "a"}, {ID: "b"}, {ID: "b"}}

	assert.Equal(t, 1, FindVariant(variants, "b"))
	assert.Equal(t, -1, FindVariant(variants, "z"))
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

func TestSnapshot_CloneIsDeep(t *testing.T) {
	orig := Snapshot{
		Product:  &Product{Name: "Tee"},
		Specs:    []Spec{{Title: "Color", Options: []SpecOption{{Name: "Red", Price: ptrF(1)}}}},
		Variants: []Variant{{ID: "color.red", Specs: map[string]string{"Color": "Red"}}},
	}

	cp := orig.Clone()
	cp.Product.Name = "Hoodie"
	*cp.Specs[0].Options[0].Price = 5
	cp.Variants[0].Specs["Color"] = "Blue"

	assert.Equal(t, "Tee", orig.Product.Name)
	assert.Equal(t, float64(1), *orig.Specs[0].Options[0].Price)
	assert.Equal(t, "Red", orig.Variants[0].Specs["Color"])
}

func TestSnapshot_IsEmpty(t *testing.T) {
	assert.True(t, EmptySnapshot().IsEmpty())
	assert.False(t, Snapshot{Product: &Product{}}.IsEmpty())

	cp := Snapshot{}.Clone()
	assert.NotNil(t, cp.Specs)
	assert.NotNil(t, cp.Variants)
}
