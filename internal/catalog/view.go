package catalog

import "github.com/soyeahso/azent/internal/domain"

const (
	DefaultPageSize = 20
	DefaultTopN     = 10
)

// ViewState is the browsing state for a listing screen. Builder methods
// return modified copies.
type ViewState struct {
	Filter   domain.FilterState
	Page     int
	PageSize int
	TopN     int
}

// NewViewState returns page 1 with no filters and default sizes.
func NewViewState() ViewState {
	return ViewState{Page: 1, PageSize: DefaultPageSize, TopN: DefaultTopN}
}

// WithFacet selects sel for facet f and returns to page 1.
func (s ViewState) WithFacet(f domain.Facet, sel domain.Selection) ViewState {
	s.Filter = s.Filter.With(f, sel)
	s.Page = 1
	return s
}

// WithPage moves to page p.
func (s ViewState) WithPage(p int) ViewState {
	s.Page = p
	return s
}

// View is everything a listing screen renders.
type View struct {
	State      ViewState
	Matched    int
	TotalPages int
	Items      []domain.Agent
	Top        []domain.Agent
	Groups     []Group
}

// Derive computes the view for state over agents. The top carousel ranks
// the full collection; items and groups come from the filtered list.
func Derive(agents []domain.Agent, state ViewState) View {
	if state.PageSize <= 0 {
		state.PageSize = DefaultPageSize
	}
	if state.TopN <= 0 {
		state.TopN = DefaultTopN
	}
	filtered := Filter(agents, state.Filter)
	return View{
		State:      state,
		Matched:    len(filtered),
		TotalPages: TotalPages(filtered, state.PageSize),
		Items:      Paginate(filtered, state.PageSize, state.Page),
		Top:        TopByLikes(agents, state.TopN),
		Groups:     GroupByCategory(filtered),
	}
}
