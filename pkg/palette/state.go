package palette

// State is the lifecycle phase of an async container.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateResults State = "results"
	StateError   State = "error"
)

// EventKind names an observable change on a container.
type EventKind string

const (
	// EventInitialized fires once per successful attach.
	EventInitialized EventKind = "initialized"
	// EventSearchCompleted fires after a search settles with or without
	// results. Results carries the raw, untruncated list.
	EventSearchCompleted EventKind = "search-completed"
	// EventState fires on every lifecycle transition.
	EventState EventKind = "state"
	// EventActive fires when the highlighted row changes.
	EventActive EventKind = "active"
	// EventActivate fires when a row is committed.
	EventActivate EventKind = "activate"
	// EventClose asks the host to close the enclosing dialog.
	EventClose EventKind = "close"
)

// Event describes one observable change.
type Event struct {
	Kind      EventKind
	Container string

	Query   string
	Results []Item

	State   State
	Message string

	Index   int
	Element *Element
}

// Outcome reports what Settle did with a response.
type Outcome int

const (
	// OutcomeDiscarded means the response was stale or cancelled.
	OutcomeDiscarded Outcome = iota
	// OutcomeEmpty means the search returned nothing.
	OutcomeEmpty
	// OutcomeResults means rows were rendered.
	OutcomeResults
	// OutcomeFailed means the search errored.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeResults:
		return "results"
	case OutcomeFailed:
		return "failed"
	}
	return "discarded"
}
