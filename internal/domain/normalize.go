package domain

import (
	"strings"
)

// inlineImagePrefix marks an image embedded as a data URL rather than referenced.
const inlineImagePrefix = "data:image/"

// SpecOptionInput is a spec option as submitted by a page view.
type SpecOptionInput struct {
	Name  string `json:"name" validate:"required"`
	Image string `json:"image,omitempty"`
	Price Number `json:"price,omitempty"`
	Stock Number `json:"stock,omitempty"`
}

// SpecInput is a spec as submitted by a page view.
type SpecInput struct {
	Title   string            `json:"title" validate:"required"`
	Options []SpecOptionInput `json:"options" validate:"dive"`
}

// VariantInput is a variant as submitted by a page view. ID may be empty, in
// which case it is derived from Specs.
type VariantInput struct {
	ID       string            `json:"id,omitempty"`
	Specs    map[string]string `json:"specs"`
	Image    string            `json:"image,omitempty"`
	Price    Number            `json:"price,omitempty"`
	Stock    Number            `json:"stock,omitempty"`
	Quantity int               `json:"quantity,omitempty" validate:"gte=0"`
}

// Report counts the degradations applied while normalizing input.
type Report struct {
	ImagesStripped int
	PricesZeroed   int
	StocksZeroed   int
}

// Add accumulates other into r.
func (r *Report) Add(other Report) {
	r.ImagesStripped += other.ImagesStripped
	r.PricesZeroed += other.PricesZeroed
	r.StocksZeroed += other.StocksZeroed
}

// Degraded reports whether anything was stripped or defaulted.
func (r Report) Degraded() bool {
	return r.ImagesStripped+r.PricesZeroed+r.StocksZeroed > 0
}

// IsInlineImage reports whether image is an embedded data URL.
func IsInlineImage(image string) bool {
	s := strings.TrimSpace(image)
	return len(s) >= len(inlineImagePrefix) && strings.EqualFold(s[:len(inlineImagePrefix)], inlineImagePrefix)
}

// StripInlineImage returns "" for an inline image and image unchanged otherwise.
func StripInlineImage(image string) (string, bool) {
	if IsInlineImage(image) {
		return "", true
	}
	return image, false
}

// NormalizeSpec converts a submitted spec into its stored form: inline images
// are dropped and option prices/stock are parsed with zero fallback.
func NormalizeSpec(in SpecInput) (Spec, Report) {
	var rep Report
	spec := Spec{Title: in.Title, Options: make([]SpecOption, 0, len(in.Options))}

	for _, o := range in.Options {
		opt := SpecOption{Name: o.Name}

		var stripped bool
		opt.Image, stripped = StripInlineImage(o.Image)
		if stripped {
			rep.ImagesStripped++
		}

		if o.Price.IsSet() {
			price, ok := o.Price.Float()
			if !ok {
				rep.PricesZeroed++
			}
			opt.Price = &price
		}
		if o.Stock.IsSet() {
			stock, ok := o.Stock.Int()
			if !ok {
				rep.StocksZeroed++
			}
			opt.Stock = &stock
		}

		spec.Options = append(spec.Options, opt)
	}

	return spec, rep
}

// NormalizeSpecs applies NormalizeSpec to each input, preserving order.
func NormalizeSpecs(in []SpecInput) ([]Spec, Report) {
	var rep Report
	specs := make([]Spec, 0, len(in))
	for _, s := range in {
		spec, r := NormalizeSpec(s)
		rep.Add(r)
		specs = append(specs, spec)
	}
	return specs, rep
}

// NormalizeVariants converts submitted variants into their stored form.
// Missing IDs are derived from the spec choices, ordered by titles.
func NormalizeVariants(in []VariantInput, titles []string) ([]Variant, Report) {
	var rep Report
	variants := make([]Variant, 0, len(in))

	for _, v := range in {
		out := Variant{
			ID:       v.ID,
			Specs:    make(map[string]string, len(v.Specs)),
			Quantity: v.Quantity,
		}
		for k, val := range v.Specs {
			out.Specs[k] = val
		}
		if out.ID == "" {
			out.ID = VariantID(out.Specs, titles)
		}

		var stripped, ok bool
		out.Image, stripped = StripInlineImage(v.Image)
		if stripped {
			rep.ImagesStripped++
		}
		if out.Price, ok = v.Price.Float(); !ok {
			rep.PricesZeroed++
		}
		if out.Stock, ok = v.Stock.Int(); !ok {
			rep.StocksZeroed++
		}

		variants = append(variants, out)
	}

	return variants, rep
}
