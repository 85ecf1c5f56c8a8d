package domain

// FilterState selects which tickets a view renders. It is derived,
// per-request view state and is never held in the store.
type FilterState string

const (
	FilterAll        FilterState = "all"
	FilterCompleted  FilterState = "completed"
	FilterIncomplete FilterState = "incomplete"
)

// ParseFilter maps a raw query value to a FilterState, defaulting to all.
func ParseFilter(raw string) FilterState {
	switch FilterState(raw) {
	case FilterCompleted:
		return FilterCompleted
	case FilterIncomplete:
		return FilterIncomplete
	default:
		return FilterAll
	}
}

// ApplyFilter returns the tickets matching the filter, preserving order.
func ApplyFilter(tickets []Ticket, filter FilterState) []Ticket {
	if filter == FilterAll {
		return tickets
	}
	wantCompleted := filter == FilterCompleted
	filtered := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Completed == wantCompleted {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
