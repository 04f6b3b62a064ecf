// Package adhesion defines the membership-application workflow: the
// closed set of application statuses, the allowed transitions between
// them, and the typed per-step form inputs validated at the boundary.
//
// Display labels (French, as shown in the UI) are a presentation concern
// kept separate from the status identifiers; persistence and routing use
// only the Status values below.
package adhesion

// Status identifies where an application sits in the workflow.
type Status string

const (
	// StatusPending: submitted, waiting for admin review.
	StatusPending Status = "pending"
	// StatusAwaitingSignature: approved, waiting for the member to sign
	// the contract and the SEPA mandate.
	StatusAwaitingSignature Status = "awaiting_signature"
	// StatusInfoRequested: the admin asked the member for more
	// information; returns to pending on resubmission.
	StatusInfoRequested Status = "info_requested"
	// StatusRejected: refused by the admin. Terminal.
	StatusRejected Status = "rejected"
	// StatusActive: both signatures captured, membership in effect. Terminal.
	StatusActive Status = "active"
)

// labels maps statuses to their French display text.
var labels = map[Status]string{
	StatusPending:           "En attente",
	StatusAwaitingSignature: "Accepté - En attente de signature",
	StatusInfoRequested:     "Information complémentaire demandée",
	StatusRejected:          "Refusé",
	StatusActive:            "Actif",
}

// IsValid reports whether s is one of the defined statuses.
func (s Status) IsValid() bool {
	_, ok := labels[s]
	return ok
}

// Label returns the French display label for s, or the raw value for an
// unknown status so templates never render blanks.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusActive
}

// transitions is the workflow graph. Pending fans out to the three
// review outcomes; an information request loops back to pending when the
// member resubmits; approval leads through signature to active.
var transitions = map[Status][]Status{
	StatusPending:           {StatusAwaitingSignature, StatusRejected, StatusInfoRequested},
	StatusInfoRequested:     {StatusPending},
	StatusAwaitingSignature: {StatusActive},
}

// CanTransition reports whether the workflow allows moving from one
// status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Open reports whether an application still occupies the member's slot
// for a project: anything not rejected. Used by the duplicate-submission
// guard.
func (s Status) Open() bool {
	return s != StatusRejected
}
