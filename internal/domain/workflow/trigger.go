package workflow

// Trigger represents a staff or parent action that can advance an exeat request
type Trigger string

const (
	TriggerCMDApprove        Trigger = "CMD_APPROVE"
	TriggerDeputyDeanApprove Trigger = "DEPUTY_DEAN_APPROVE"
	TriggerParentConsent     Trigger = "PARENT_CONSENT"
	TriggerDeanApprove       Trigger = "DEAN_APPROVE"
	TriggerHostelSignOut     Trigger = "HOSTEL_SIGN_OUT"
	TriggerSecuritySignOut   Trigger = "SECURITY_SIGN_OUT"
	TriggerDepart            Trigger = "DEPART"
	TriggerSecuritySignIn    Trigger = "SECURITY_SIGN_IN"
	TriggerReject            Trigger = "REJECT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
