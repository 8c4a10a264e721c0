package workflow

import "strings"

// State represents the overall status of an exeat request
type State string

const (
	StatePending          State = "pending"
	StateCMDReview        State = "cmd_review"
	StateDeputyDeanReview State = "deputy_dean_review"
	StateParentConsent    State = "parent_consent"
	StateDeanReview       State = "dean_review"
	StateHostelSignout    State = "hostel_signout"
	StateHostelSignin     State = "hostel_signin"
	StateSecuritySignout  State = "security_signout"
	StateSecuritySignin   State = "security_signin"
	StateApproved         State = "approved"
	StateRejected         State = "rejected"
	StateCompleted        State = "completed"
)

var validStates = map[State]bool{
	StatePending:          true,
	StateCMDReview:        true,
	StateDeputyDeanReview: true,
	StateParentConsent:    true,
	StateDeanReview:       true,
	StateHostelSignout:    true,
	StateHostelSignin:     true,
	StateSecuritySignout:  true,
	StateSecuritySignin:   true,
	StateApproved:         true,
	StateRejected:         true,
	StateCompleted:        true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known exeat status
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// NormalizeStatus canonicalizes a raw status string. Some admin-facing
// producers emit "deputy-dean_review" with a hyphen; the pipeline only ever
// reasons over the underscore spelling. Unknown values pass through unchanged
// so the resolver can fall back to approval evidence.
func NormalizeStatus(raw string) State {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "deputy-dean_review" {
		return StateDeputyDeanReview
	}
	return State(s)
}

// StageStatus classifies a single pipeline stage for display
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCurrent   StageStatus = "current"
	StageCompleted StageStatus = "completed"
	StageRejected  StageStatus = "rejected"
)

// String returns the string representation of the stage status
func (s StageStatus) String() string {
	return string(s)
}
