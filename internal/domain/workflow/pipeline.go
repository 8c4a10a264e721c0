package workflow

import "context"

// NewPipeline builds the exeat transition machine for a request. The medical
// flag gates the CMD review leg: medical requests go through the Chief Medical
// Director before the deputy dean, non-medical requests skip straight to the
// deputy dean.
//
// Status names the stage the request is currently waiting on; "pending" is
// the freshly submitted state awaiting the first reviewer.
func NewPipeline(isMedical bool, current State) StateMachine {
	medical := func(ctx context.Context) bool { return isMedical }
	nonMedical := func(ctx context.Context) bool { return !isMedical }

	b := NewBuilder()

	b.Configure(StatePending).
		PermitIf(TriggerCMDApprove, StateDeputyDeanReview, medical).
		PermitIf(TriggerDeputyDeanApprove, StateParentConsent, nonMedical).
		Permit(TriggerReject, StateRejected)

	// cmd_review is produced by upstream admin tooling; it behaves as an
	// explicit "awaiting CMD" alias of pending for medical requests.
	b.Configure(StateCMDReview).
		PermitIf(TriggerCMDApprove, StateDeputyDeanReview, medical).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateDeputyDeanReview).
		Permit(TriggerDeputyDeanApprove, StateParentConsent).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateParentConsent).
		Permit(TriggerParentConsent, StateDeanReview).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateDeanReview).
		Permit(TriggerDeanApprove, StateHostelSignout).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateHostelSignout).
		Permit(TriggerHostelSignOut, StateSecuritySignout).
		Permit(TriggerReject, StateRejected)

	b.Configure(StateSecuritySignout).
		Permit(TriggerSecuritySignOut, StateApproved).
		Permit(TriggerReject, StateRejected)

	// approved means every approval is in place; the student has not yet
	// passed the gate. Departure is recorded by security as an action, not
	// a fresh approval.
	b.Configure(StateApproved).
		Permit(TriggerDepart, StateSecuritySignin)

	b.Configure(StateSecuritySignin).
		Permit(TriggerSecuritySignIn, StateCompleted)

	return b.Build(current)
}

// TriggerForRole maps an approving role to the trigger its approval fires.
// Rejection is role-independent and handled separately.
func TriggerForRole(role string) (Trigger, bool) {
	switch role {
	case "cmd":
		return TriggerCMDApprove, true
	case "deputy_dean":
		return TriggerDeputyDeanApprove, true
	case "dean":
		return TriggerDeanApprove, true
	case "hostel_admin":
		return TriggerHostelSignOut, true
	case "security":
		return TriggerSecuritySignOut, true
	case "unknown":
		return TriggerParentConsent, true
	default:
		return "", false
	}
}
