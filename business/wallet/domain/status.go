package domain

import "time"

// Status is the machine-distinguishable report of one cycle, rendered
// from a CycleOutcome. Summary is a single line; Detail carries
// everything an operator needs to act without further queries.
type Status struct {
	Kind      OutcomeKind
	Summary   string
	Detail    string
	Timestamp time.Time
}

// Actionable reports whether the status requires operator attention.
func (s Status) Actionable() bool {
	switch s.Kind {
	case KindInsufficientFunds, KindTransferFailed, KindConfirmationUnknown:
		return true
	}
	return false
}
