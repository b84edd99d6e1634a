package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/utafrali/productspec/pkg/slug"
)

// VariantID derives a stable identifier from spec choices, e.g.
// "color.red_size.m". Titles fixes the order; choices for titles not listed
// follow in sorted order. Distinct choices always give distinct ids; see
// idToken.
func VariantID(choices map[string]string, titles []string) string {
	seen := make(map[string]bool, len(titles))
	parts := make([]string, 0, len(choices))

	for _, title := range titles {
		if value, ok := choices[title]; ok && !seen[title] {
			parts = append(parts, idPart(title, value))
			seen[title] = true
		}
	}

	var rest []string
	for title := range choices {
		if !seen[title] {
			rest = append(rest, title)
		}
	}
	sort.Strings(rest)
	for _, title := range rest {
		parts = append(parts, idPart(title, choices[title]))
	}

	return strings.Join(parts, "_")
}

func idPart(title, value string) string {
	return idToken(title) + "." + idToken(value)
}

// idToken slugs s. The bare slug is used only when s is the title-cased form
// of it ("Red", "Midnight Blue"), so each bare slug has exactly one source.
// Any other spelling ("RED!", "red", "★") gets a digest of the raw text after
// a '~', which no slug contains.
func idToken(s string) string {
	sl := slug.Generate(s)
	if cases.Title(language.Und).String(strings.ReplaceAll(sl, "-", " ")) == s {
		return sl
	}
	sum := sha256.Sum256([]byte(s))
	return sl + "~" + hex.EncodeToString(sum[:6])
}

// Enumerate builds one variant per combination of spec options, in spec
// order with the last spec varying fastest. Specs without options are
// skipped; no specs means no variants.
//
// A new variant's price is the sum of its options' prices, its stock the
// smallest stock among options that declare one, and its image the first
// option image found in spec order. Variants already present in existing
// (matched by ID) keep their image, price, stock and quantity.
func Enumerate(specs []Spec, existing []Variant) []Variant {
	axes := make([]Spec, 0, len(specs))
	for _, s := range specs {
		if len(s.Options) > 0 {
			axes = append(axes, s)
		}
	}
	if len(axes) == 0 {
		return []Variant{}
	}

	prior := make(map[string]Variant, len(existing))
	for _, v := range existing {
		if _, dup := prior[v.ID]; !dup {
			prior[v.ID] = v
		}
	}

	titles := Titles(axes)
	total := 1
	for _, a := range axes {
		total *= len(a.Options)
	}
	out := make([]Variant, 0, total)

	idx := make([]int, len(axes))
	for {
		chosen := make([]SpecOption, len(axes))
		choices := make(map[string]string, len(axes))
		for i, a := range axes {
			chosen[i] = a.Options[idx[i]]
			choices[a.Title] = chosen[i].Name
		}

		id := VariantID(choices, titles)
		if p, ok := prior[id]; ok {
			v := p.Clone()
			v.Specs = choices
			out = append(out, v)
		} else {
			out = append(out, seedVariant(id, choices, chosen))
		}

		// Odometer increment, last axis fastest.
		i := len(axes) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i].Options) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return out
}

func seedVariant(id string, choices map[string]string, chosen []SpecOption) Variant {
	v := Variant{ID: id, Specs: choices}
	stockSet := false
	for _, o := range chosen {
		if v.Image == "" && o.Image != "" {
			v.Image = o.Image
		}
		if o.Price != nil {
			v.Price += *o.Price
		}
		if o.Stock != nil && (!stockSet || *o.Stock < v.Stock) {
			v.Stock = *o.Stock
			stockSet = true
		}
	}
	return v
}

// FindVariant returns the index of the first variant with the given ID, or -1.
func FindVariant(variants []Variant, id string) int {
	for i := range variants {
		if variants[i].ID == id {
			return i
		}
	}
	return -1
}
