package domain

// Product is the item being configured.
type Product struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SpecOption is one selectable value of a Spec. Price and Stock are optional.
type SpecOption struct {
	Name  string   `json:"name"`
	Image string   `json:"image,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Stock *int     `json:"stock,omitempty"`
}

// Spec is a named axis of variation, e.g. "Color" with options Red and Blue.
type Spec struct {
	Title   string       `json:"title"`
	Options []SpecOption `json:"options"`
}

// Variant is one concrete combination of spec choices. Specs maps a spec
// title to the chosen option name.
type Variant struct {
	ID       string            `json:"id"`
	Specs    map[string]string `json:"specs"`
	Image    string            `json:"image"`
	Price    float64           `json:"price"`
	Stock    int               `json:"stock"`
	Quantity int               `json:"quantity"`
}

// Snapshot is the whole watched state: the body of the durable record.
type Snapshot struct {
	Product  *Product  `json:"product"`
	Specs    []Spec    `json:"specs"`
	Variants []Variant `json:"variants"`
}

// EmptySnapshot returns a snapshot with no product and empty, non-nil slices.
func EmptySnapshot() Snapshot {
	return Snapshot{Specs: []Spec{}, Variants: []Variant{}}
}

// IsEmpty reports whether nothing has been configured yet.
func (s Snapshot) IsEmpty() bool {
	return s.Product == nil && len(s.Specs) == 0 && len(s.Variants) == 0
}

// Clone returns a deep copy of the snapshot. Nil slices come back empty.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Specs:    CloneSpecs(s.Specs),
		Variants: CloneVariants(s.Variants),
	}
	if s.Product != nil {
		p := *s.Product
		out.Product = &p
	}
	return out
}

// Clone returns a deep copy of the spec.
func (s Spec) Clone() Spec {
	out := Spec{Title: s.Title, Options: make([]SpecOption, len(s.Options))}
	for i, o := range s.Options {
		cp := SpecOption{Name: o.Name, Image: o.Image}
		if o.Price != nil {
			p := *o.Price
			cp.Price = &p
		}
		if o.Stock != nil {
			st := *o.Stock
			cp.Stock = &st
		}
		out.Options[i] = cp
	}
	return out
}

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	out := v
	out.Specs = make(map[string]string, len(v.Specs))
	for k, val := range v.Specs {
		out.Specs[k] = val
	}
	return out
}

// CloneSpecs deep-copies specs; the result is never nil.
func CloneSpecs(specs []Spec) []Spec {
	out := make([]Spec, len(specs))
	for i, s := range specs {
		out[i] = s.Clone()
	}
	return out
}

// CloneVariants deep-copies variants; the result is never nil.
func CloneVariants(variants []Variant) []Variant {
	out := make([]Variant, len(variants))
	for i, v := range variants {
		out[i] = v.Clone()
	}
	return out
}

// Titles returns the spec titles in order.
func Titles(specs []Spec) []string {
	titles := make([]string, len(specs))
	for i, s := range specs {
		titles[i] = s.Title
	}
	return titles
}
