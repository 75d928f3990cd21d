package domain

// SearchPhase is the lifecycle of one search form.
type SearchPhase int

const (
	// PhaseIdle means nothing has been submitted; no results are shown.
	PhaseIdle SearchPhase = iota
	// PhaseEvaluated means results reflect the last submitted query.
	PhaseEvaluated
)

func (p SearchPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// SearchState tracks the form fields separately from the last submission so
// that edits do not change results until the next submit.
type SearchState struct {
	Phase     SearchPhase
	Form      Query
	Submitted Query
	Results   []Provider
}

// NewSearchState returns an idle form with the default disaster selected.
func NewSearchState() SearchState {
	return SearchState{
		Phase:   PhaseIdle,
		Form:    Query{Disaster: DefaultDisaster},
		Results: []Provider{},
	}
}

// SearchEvent is an input to Reduce.
type SearchEvent interface {
	apply(SearchState) SearchState
}

// SetDisaster changes the disaster field of the form.
type SetDisaster struct {
	Disaster DisasterCategory
}

func (e SetDisaster) apply(s SearchState) SearchState {
	s.Form.Disaster = e.Disaster
	return s
}

// SetLocation changes the location field of the form.
type SetLocation struct {
	Location string
}

func (e SetLocation) apply(s SearchState) SearchState {
	s.Form.Location = e.Location
	return s
}

// Submit evaluates the current form against Providers.
type Submit struct {
	Providers []Provider
}

func (e Submit) apply(s SearchState) SearchState {
	s.Phase = PhaseEvaluated
	s.Submitted = s.Form
	s.Results = Evaluate(e.Providers, s.Form)
	return s
}

// Reduce applies one event to a search state. A nil event leaves the state
// unchanged.
func Reduce(s SearchState, e SearchEvent) SearchState {
	if e == nil {
		return s
	}
	return e.apply(s)
}
