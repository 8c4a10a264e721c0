package workflow

import "github.com/campus-systems/exeat-workflow/internal/domain/entity"

// TimelineEntry is the resolved view of a single pipeline stage
type TimelineEntry struct {
	Stage    Stage            `json:"stage"`
	Status   StageStatus      `json:"status"`
	Approval *entity.Approval `json:"approval,omitempty"`
}

// Timeline is the full resolved pipeline for one request. CurrentIndex is -1
// when no stage is current (rejected or completed requests).
type Timeline struct {
	Entries      []TimelineEntry `json:"entries"`
	CurrentIndex int             `json:"current_index"`
	Summary      Summary         `json:"summary"`
}

// CurrentStageKey returns the key of the current stage, or "" when none
func (t Timeline) CurrentStageKey() string {
	if t.CurrentIndex < 0 || t.CurrentIndex >= len(t.Entries) {
		return ""
	}
	return t.Entries[t.CurrentIndex].Stage.Key
}

// Resolve classifies every pipeline stage for a request. It is a pure
// function over its inputs: it never errors, never mutates its arguments,
// and always returns a complete, internally consistent stage list. Unknown
// status values degrade to the evidence-based default rule rather than
// failing, since the upstream status vocabulary evolves independently.
func Resolve(rawStatus string, isMedical bool, approvals []*entity.Approval) Timeline {
	status := NormalizeStatus(rawStatus)
	stages := Stages(isMedical)

	entries := make([]TimelineEntry, len(stages))
	for i, st := range stages {
		entries[i] = TimelineEntry{
			Stage:    st,
			Status:   StagePending,
			Approval: ApprovalForStage(st, status, approvals),
		}
	}

	current := -1

	switch status {
	case StateRejected:
		// Walk backwards for the explicit rejection point; if upstream never
		// recorded a rejected approval, fall back to wherever the request
		// would otherwise have been.
		rejected := -1
		for i := len(entries) - 1; i >= 0; i-- {
			if a := entries[i].Approval; a != nil && a.Status == entity.ApprovalRejected {
				rejected = i
				break
			}
		}
		if rejected < 0 {
			rejected = defaultCurrentIndex(entries)
		}
		mark(entries, rejected, StageRejected)

	case StateSecuritySignin:
		// Departed but not back: everything through departed_school is done,
		// sign-in is what the world is waiting on.
		current = stageIndex(stages, StageKeySecuritySignin)
		mark(entries, current, StageCurrent)

	case StateApproved:
		// Every approval is in place; departure is an action, not an
		// approval, so it is current without an approval record.
		current = stageIndex(stages, StageKeyDepartedSchool)
		mark(entries, current, StageCurrent)

	case StateCompleted:
		mark(entries, len(entries), StageCurrent)

	default:
		// Named review states resolve by direct key match first; anything
		// else (pending, hostel_signin, future vocabulary) falls through to
		// approval evidence.
		if idx := stageIndex(stages, status.String()); idx >= 0 {
			current = idx
		} else {
			current = defaultCurrentIndex(entries)
		}
		mark(entries, current, StageCurrent)
	}

	return Timeline{
		Entries:      entries,
		CurrentIndex: current,
		Summary:      summarize(status, currentKey(entries, current)),
	}
}

// mark classifies entries by catalog position: everything before pivot is
// completed, the pivot itself takes pivotStatus, everything after stays
// pending. A pivot beyond the last index completes every stage.
func mark(entries []TimelineEntry, pivot int, pivotStatus StageStatus) {
	for i := range entries {
		switch {
		case i < pivot:
			entries[i].Status = StageCompleted
		case i == pivot:
			entries[i].Status = pivotStatus
		default:
			entries[i].Status = StagePending
		}
	}
}

// defaultCurrentIndex implements the evidence-based fallback: the stage
// after the last one holding an approved approval is current. Submission
// counts as always approved. The final stage never overflows; it stays
// current itself.
func defaultCurrentIndex(entries []TimelineEntry) int {
	last := 0
	for i, e := range entries {
		if e.Stage.Key == StageKeySubmitted {
			last = i
			continue
		}
		if a := e.Approval; a != nil && a.Status == entity.ApprovalApproved {
			last = i
		}
	}

	current := last + 1
	if current >= len(entries) {
		current = len(entries) - 1
	}
	return current
}

func currentKey(entries []TimelineEntry, current int) string {
	if current < 0 || current >= len(entries) {
		return ""
	}
	return entries[current].Stage.Key
}
