package workflow

// Stage keys, in pipeline order
const (
	StageKeySubmitted        = "submitted"
	StageKeyCMDReview        = "cmd_review"
	StageKeyDeputyDeanReview = "deputy_dean_review"
	StageKeyParentConsent    = "parent_consent"
	StageKeyDeanReview       = "dean_review"
	StageKeyHostelSignout    = "hostel_signout"
	StageKeySecuritySignout  = "security_signout"
	StageKeyDepartedSchool   = "departed_school"
	StageKeySecuritySignin   = "security_signin"
)

// Stage is one entry of the static pipeline catalog. Role is the approval
// role the stage draws its evidence from; empty for stages that carry no
// approval record of their own (submission).
type Stage struct {
	Key         string
	Label       string
	Description string
	Role        string
}

// catalog is the full ordered pipeline. Catalog position is the single
// source of truth for before/after ordering; approval timestamps are never
// consulted. departed_school and security_signin share the security role
// with security_signout; the lookup disambiguates them by overall status.
var catalog = []Stage{
	{Key: StageKeySubmitted, Label: "Submitted", Description: "Request submitted by student"},
	{Key: StageKeyCMDReview, Label: "CMD Review", Description: "Chief Medical Director review (medical exeats only)", Role: "cmd"},
	{Key: StageKeyDeputyDeanReview, Label: "Deputy Dean Review", Description: "Deputy dean of student affairs review", Role: "deputy_dean"},
	{Key: StageKeyParentConsent, Label: "Parent Consent", Description: "Guardian consent to the absence", Role: "unknown"},
	{Key: StageKeyDeanReview, Label: "Dean Review", Description: "Dean of student affairs final review", Role: "dean"},
	{Key: StageKeyHostelSignout, Label: "Hostel Sign-Out", Description: "Hostel admin records the student leaving the hall", Role: "hostel_admin"},
	{Key: StageKeySecuritySignout, Label: "Security Sign-Out", Description: "Gate security clears the student to leave", Role: "security"},
	{Key: StageKeyDepartedSchool, Label: "Departed School", Description: "Student has left campus", Role: "security"},
	{Key: StageKeySecuritySignin, Label: "Security Sign-In", Description: "Gate security records the student's return", Role: "security"},
}

// Stages returns the ordered pipeline applicable to a request. CMD review is
// present only for medical requests; every other stage always appears.
func Stages(isMedical bool) []Stage {
	if isMedical {
		out := make([]Stage, len(catalog))
		copy(out, catalog)
		return out
	}

	out := make([]Stage, 0, len(catalog)-1)
	for _, s := range catalog {
		if s.Key == StageKeyCMDReview {
			continue
		}
		out = append(out, s)
	}
	return out
}

// stageIndex returns the position of a stage key within the given pipeline,
// or -1 when absent
func stageIndex(stages []Stage, key string) int {
	for i, s := range stages {
		if s.Key == key {
			return i
		}
	}
	return -1
}
