package workflow

import "github.com/campus-systems/exeat-workflow/internal/domain/entity"

// Tone is the badge tone accompanying the overall summary
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"
	ToneInfo    Tone = "info"
)

// Summary is the single overall-status descriptor derived from the same
// inputs as the per-stage view, so the two can never contradict each other
type Summary struct {
	Headline string `json:"headline"`
	Detail   string `json:"detail"`
	Tone     Tone   `json:"tone"`
}

// summarize maps (status, current stage) to a display summary. Rejected maps
// to danger, approved and completed to success, everything else to info.
func summarize(status State, currentStageKey string) Summary {
	switch status {
	case StateRejected:
		return Summary{
			Headline: "Request rejected",
			Detail:   "The exeat request was declined during review.",
			Tone:     ToneDanger,
		}
	case StateCompleted:
		return Summary{
			Headline: "Exeat completed",
			Detail:   "The student has returned to campus and signed back in.",
			Tone:     ToneSuccess,
		}
	case StateApproved:
		return Summary{
			Headline: "Fully approved",
			Detail:   "All approvals are in place. The student may leave campus.",
			Tone:     ToneSuccess,
		}
	case StateSecuritySignin:
		return Summary{
			Headline: "Awaiting return",
			Detail:   "The student has departed and is expected back by the return date.",
			Tone:     ToneInfo,
		}
	}

	label := "review"
	if idx := stageIndex(catalog, currentStageKey); idx >= 0 {
		label = catalog[idx].Label
	}
	return Summary{
		Headline: "Awaiting " + label,
		Detail:   "The request is progressing through the approval pipeline.",
		Tone:     ToneInfo,
	}
}

// Summarize exposes the summary projection on its own for callers that do
// not need the full timeline
func Summarize(rawStatus string, isMedical bool, approvals []*entity.Approval) Summary {
	return Resolve(rawStatus, isMedical, approvals).Summary
}
