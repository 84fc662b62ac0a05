// Package domain provides the business rules of the preparation project lifecycle.
package domain

// Status is the lifecycle state of a preparation project.
type Status string

const (
	StatusPlanning   Status = "PLANNING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusPaused     Status = "PAUSED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPlanning,
	StatusInProgress,
	StatusPaused,
	StatusCompleted,
	StatusCancelled,
}

// transitions is the closed set of legal edges. Terminal states have none.
var transitions = map[Status]map[Status]struct{}{
	StatusPlanning: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusInProgress: {
		StatusPaused:    {},
		StatusCompleted: {},
		StatusCancelled: {},
	},
	StatusPaused: {
		StatusInProgress: {},
		StatusCancelled:  {},
	},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ParseStatus returns the Status named by s.
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	_, ok := transitions[status]
	return status, ok
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to Status) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = edges[to]
	return ok
}

// AllowedTransitions returns the legal targets from s in lifecycle order.
func AllowedTransitions(s Status) []Status {
	out := make([]Status, 0, 3)
	for _, candidate := range AllStatuses {
		if CanTransition(s, candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func (s Status) String() string { return string(s) }
