package workflow

import "testing"

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateCMDReview, false},
		{StateDeputyDeanReview, false},
		{StateParentConsent, false},
		{StateDeanReview, false},
		{StateHostelSignout, false},
		{StateHostelSignin, false},
		{StateSecuritySignout, false},
		{StateSecuritySignin, false},
		{StateApproved, false},
		{StateRejected, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"valid state", StatePending, true},
		{"valid state", StateCompleted, true},
		{"invalid state", State("under_review"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected State
	}{
		{"canonical spelling", "deputy_dean_review", StateDeputyDeanReview},
		{"hyphenated producer variant", "deputy-dean_review", StateDeputyDeanReview},
		{"upper case", "APPROVED", StateApproved},
		{"surrounding whitespace", " completed ", StateCompleted},
		{"unknown passes through", "escalated", State("escalated")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.expected {
				t.Errorf("NormalizeStatus(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}
