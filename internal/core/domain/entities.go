package domain

import "strings"

// Status represents an application's lifecycle state
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under-review"
	StatusInterview   Status = "interview"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// transitions is the directed transition graph. submitted is never revisited;
// accepted and rejected are terminal.
var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusInterview, StatusAccepted, StatusRejected},
	StatusInterview:   {StatusAccepted, StatusRejected},
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusInterview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo reports whether s → next is a legal transition
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// NonTerminalStatuses returns the statuses a decision may still be rendered from
func NonTerminalStatuses() []string {
	return []string{string(StatusSubmitted), string(StatusUnderReview), string(StatusInterview)}
}

// ParseDecision validates a reviewer decision value.
// Only interview, accepted and rejected are decisions.
func ParseDecision(raw string) (Status, error) {
	d := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case StatusInterview, StatusAccepted, StatusRejected:
		return d, nil
	}
	return "", ErrInvalidDecision
}

// IdentityKind distinguishes applicant callers from staff callers
type IdentityKind string

const (
	KindApplicant IdentityKind = "applicant"
	KindStaff     IdentityKind = "staff"
)

// BranchExecutive is the roster branch that grants cross-branch authorization
const BranchExecutive = "Executive"

// Branches owning their own role set and review queue
var Branches = []string{
	"management", "hardware", "software", "data", "finance", "marketing", "community",
}

// IsBranch reports whether name is a known branch (case-insensitive)
func IsBranch(name string) bool {
	for _, b := range Branches {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// Identity is the resolved caller context for one request.
// Staff identities are looked up from the roster per request and never cached
// by the core.
type Identity struct {
	Email      string       `json:"email"`
	Name       string       `json:"name"`
	Kind       IdentityKind `json:"kind"`
	Role       string       `json:"role,omitempty"`
	Branch     string       `json:"branch,omitempty"`
	Authorized bool         `json:"authorized"`
}

// Executive reports whether the identity holds cross-branch review authority
func (i *Identity) Executive() bool {
	return i.Kind == KindStaff && i.Authorized && i.Branch == BranchExecutive
}

// CanReview reports whether the identity may work a branch's queue:
// executives any branch, other authorized staff only their home branch.
func (i *Identity) CanReview(branch string) bool {
	if i.Kind != KindStaff || !i.Authorized {
		return false
	}
	if i.Executive() {
		return true
	}
	return strings.EqualFold(i.Branch, branch)
}
