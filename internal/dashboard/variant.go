package dashboard

import (
	"sort"

	"facilitydash/adapters/source"
	"facilitydash/domain/facility"
)

// BoundsScope decides which rows the Score slider bounds are computed from
type BoundsScope string

const (
	// BoundsDataset uses the whole loaded dataset, so a range may select nothing
	BoundsDataset BoundsScope = "dataset"
	// BoundsState uses the state-filtered rows, so the full range is never empty
	BoundsState BoundsScope = "state"
)

// Variant is one flavour of the dashboard
type Variant struct {
	Name     string
	Title    string
	Encoding string
	// CoerceScore turns unparseable Score cells into missing values at load time
	CoerceScore bool
	Bounds      BoundsScope
	// Map renders the world scatter of facility coordinates
	Map bool
	// Explore renders the interactive table, ZIP scatter, box plot and pairplot
	Explore bool
	Export  bool
}

var (
	Facility = Variant{
		Name:   "facility",
		Title:  "Facility Analysis",
		Bounds: BoundsDataset,
		Map:    true,
	}

	Infections = Variant{
		Name:        "infections",
		Title:       "Healthcare Associated Infections Analysis",
		Encoding:    "ISO-8859-1",
		CoerceScore: true,
		Bounds:      BoundsState,
		Explore:     true,
		Export:      true,
	}
)

var variants = map[string]Variant{
	Facility.Name:   Facility,
	Infections.Name: Infections,
}

// Lookup finds a variant by name
func Lookup(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// Variants lists all variants by name
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Charset names the encoding of files this variant reads and exports
func (v Variant) Charset() string {
	if v.Encoding == "" {
		return "utf-8"
	}
	return v.Encoding
}

// LoadOptions returns the loader options this variant reads its data with
func (v Variant) LoadOptions() source.Options {
	opts := source.Options{Encoding: v.Encoding}
	if v.CoerceScore {
		opts.Coerce = []string{facility.ColScore}
	}
	return opts
}
