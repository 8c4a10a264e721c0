package workflow

import "github.com/campus-systems/exeat-workflow/internal/domain/entity"

// ApprovalForStage finds the approval record backing a stage, if any.
//
// The security role is shared by three stages (sign-out, departure, sign-in),
// so a lone security approval must not be surfaced for a later stage the
// request has not reached yet. Eligibility is keyed on (stage, overall
// status), not on the approval alone:
//
//   - security_signout: always eligible
//   - departed_school:  eligible once the student is out (security_signin)
//     or back (completed)
//   - security_signin:  eligible only once the request is completed
//
// Approvals whose role matches no stage are silently ignored.
func ApprovalForStage(stage Stage, status State, approvals []*entity.Approval) *entity.Approval {
	if stage.Role == "" {
		// Submission has no approval record; it is inferred as always complete.
		return nil
	}

	switch stage.Key {
	case StageKeyDepartedSchool:
		if status != StateSecuritySignin && status != StateCompleted {
			return nil
		}
	case StageKeySecuritySignin:
		if status != StateCompleted {
			return nil
		}
	}

	for _, a := range approvals {
		if a != nil && a.Role == stage.Role {
			return a
		}
	}
	return nil
}
