package domain

import "fmt"

// Facet is one independent filter dimension.
type Facet int

const (
	FacetCategory Facet = iota
	FacetIndustry
	FacetPricing
	FacetAccess
)

// Facets lists every facet in display order.
var Facets = []Facet{FacetCategory, FacetIndustry, FacetPricing, FacetAccess}

// String returns the facet's wire name.
func (f Facet) String() string {
	switch f {
	case FacetCategory:
		return "category"
	case FacetIndustry:
		return "industry"
	case FacetPricing:
		return "pricingModel"
	case FacetAccess:
		return "accessModel"
	}
	return fmt.Sprintf("facet(%d)", int(f))
}

// Label is the heading shown for the facet when nothing is selected.
func (f Facet) Label() string {
	switch f {
	case FacetCategory:
		return "Category"
	case FacetIndustry:
		return "Industry"
	case FacetPricing:
		return "Pricing"
	case FacetAccess:
		return "Access"
	}
	return f.String()
}

// Options returns the fixed menu of values offered for the facet.
func (f Facet) Options() []string {
	switch f {
	case FacetCategory:
		return []string{"Personal Assistant", "Productivity", "Content Creation", "Coding"}
	case FacetIndustry:
		return []string{"Technology", "Finance", "Healthcare"}
	case FacetPricing:
		return []string{"Free", "Freemium", "Paid"}
	case FacetAccess:
		return []string{"Open Source", "Closed Source", "API"}
	}
	return nil
}

// Selection is a facet choice: either any value or exactly one value.
// The zero value selects any.
type Selection struct {
	value string
	set   bool
}

// Any returns a selection that matches every agent.
func Any() Selection { return Selection{} }

// Only returns a selection that matches agents whose facet equals v.
func Only(v string) Selection { return Selection{value: v, set: true} }

// SelectionFrom maps user input to a selection; empty input means any.
func SelectionFrom(s string) Selection {
	if s == "" {
		return Any()
	}
	return Only(s)
}

// Get returns the selected value and whether one is set.
func (s Selection) Get() (string, bool) { return s.value, s.set }

// IsAny reports whether the selection matches every value.
func (s Selection) IsAny() bool { return !s.set }

// Admits reports whether v passes the selection.
func (s Selection) Admits(v string) bool { return !s.set || s.value == v }

// Display returns the selected value or the facet label when unset.
func (s Selection) Display(f Facet) string {
	if !s.set {
		return f.Label()
	}
	return s.value
}

// FilterState holds one selection per facet. It is a value type; the With
// methods return modified copies.
type FilterState struct {
	Category Selection
	Industry Selection
	Pricing  Selection
	Access   Selection
}

// Selection returns the selection for a facet.
func (fs FilterState) Selection(f Facet) Selection {
	switch f {
	case FacetCategory:
		return fs.Category
	case FacetIndustry:
		return fs.Industry
	case FacetPricing:
		return fs.Pricing
	case FacetAccess:
		return fs.Access
	}
	return Any()
}

// With returns a copy of fs with facet f set to sel.
func (fs FilterState) With(f Facet, sel Selection) FilterState {
	switch f {
	case FacetCategory:
		fs.Category = sel
	case FacetIndustry:
		fs.Industry = sel
	case FacetPricing:
		fs.Pricing = sel
	case FacetAccess:
		fs.Access = sel
	}
	return fs
}

// Reset returns a copy of fs with facet f cleared.
func (fs FilterState) Reset(f Facet) FilterState {
	return fs.With(f, Any())
}

// IsIdentity reports whether every facet selects any.
func (fs FilterState) IsIdentity() bool {
	for _, f := range Facets {
		if !fs.Selection(f).IsAny() {
			return false
		}
	}
	return true
}
