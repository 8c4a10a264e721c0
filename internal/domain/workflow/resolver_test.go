package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

func approval(role, status string) *entity.Approval {
	return &entity.Approval{Role: role, Status: status}
}

// fullApprovalSet covers every approval-bearing role for a medical request
func fullApprovalSet() []*entity.Approval {
	return []*entity.Approval{
		approval(entity.RoleCMD, entity.ApprovalApproved),
		approval(entity.RoleDeputyDean, entity.ApprovalApproved),
		approval(entity.RoleUnknown, entity.ApprovalApproved),
		approval(entity.RoleDean, entity.ApprovalApproved),
		approval(entity.RoleHostelAdmin, entity.ApprovalApproved),
		approval(entity.RoleSecurity, entity.ApprovalApproved),
	}
}

func statusOf(tl Timeline, key string) (StageStatus, bool) {
	for _, e := range tl.Entries {
		if e.Stage.Key == key {
			return e.Status, true
		}
	}
	return "", false
}

func TestResolve_FreshSubmission(t *testing.T) {
	// Scenario: pending, non-medical, no approvals yet
	tl := Resolve("pending", false, nil)

	require.Len(t, tl.Entries, 8, "non-medical pipeline has 8 stages")
	assert.Equal(t, StageKeySubmitted, tl.Entries[0].Stage.Key)
	assert.Equal(t, StageCompleted, tl.Entries[0].Status, "submission is always complete")
	assert.Equal(t, StageKeyDeputyDeanReview, tl.Entries[1].Stage.Key)
	assert.Equal(t, StageCurrent, tl.Entries[1].Status)
	assert.Equal(t, 1, tl.CurrentIndex)

	for _, e := range tl.Entries[2:] {
		assert.Equal(t, StagePending, e.Status, "stage %s", e.Stage.Key)
	}
}

func TestResolve_MedicalRejectionAtCMD(t *testing.T) {
	tl := Resolve("rejected", true, []*entity.Approval{
		approval(entity.RoleCMD, entity.ApprovalRejected),
	})

	require.Len(t, tl.Entries, 9, "medical pipeline has 9 stages")
	assert.Equal(t, StageCompleted, tl.Entries[0].Status)
	assert.Equal(t, StageKeyCMDReview, tl.Entries[1].Stage.Key)
	assert.Equal(t, StageRejected, tl.Entries[1].Status)
	assert.Equal(t, -1, tl.CurrentIndex, "a rejected request has no current stage")

	for _, e := range tl.Entries[2:] {
		assert.Equal(t, StagePending, e.Status, "stage %s", e.Stage.Key)
	}
	assert.Equal(t, ToneDanger, tl.Summary.Tone)
}

func TestResolve_AwaitingReturn(t *testing.T) {
	tl := Resolve("security_signin", false, []*entity.Approval{
		approval(entity.RoleSecurity, entity.ApprovalApproved),
	})

	departed := stageIndex(Stages(false), StageKeyDepartedSchool)
	for i, e := range tl.Entries {
		if i <= departed {
			assert.Equal(t, StageCompleted, e.Status, "stage %s", e.Stage.Key)
		}
	}

	st, ok := statusOf(tl, StageKeySecuritySignin)
	require.True(t, ok)
	assert.Equal(t, StageCurrent, st)
	assert.Equal(t, StageKeySecuritySignin, tl.Entries[len(tl.Entries)-1].Stage.Key, "sign-in is the final stage")
	assert.Equal(t, ToneInfo, tl.Summary.Tone)
}

func TestResolve_Completed(t *testing.T) {
	tl := Resolve("completed", true, fullApprovalSet())

	for _, e := range tl.Entries {
		assert.Equal(t, StageCompleted, e.Status, "stage %s", e.Stage.Key)
	}
	assert.Equal(t, -1, tl.CurrentIndex)
	assert.Equal(t, ToneSuccess, tl.Summary.Tone)
}

func TestResolve_ApprovedAwaitingDeparture(t *testing.T) {
	approvals := []*entity.Approval{
		approval(entity.RoleDeputyDean, entity.ApprovalApproved),
		approval(entity.RoleUnknown, entity.ApprovalApproved),
		approval(entity.RoleDean, entity.ApprovalApproved),
		approval(entity.RoleHostelAdmin, entity.ApprovalApproved),
		approval(entity.RoleSecurity, entity.ApprovalApproved),
	}
	tl := Resolve("approved", false, approvals)

	st, ok := statusOf(tl, StageKeyDepartedSchool)
	require.True(t, ok)
	assert.Equal(t, StageCurrent, st, "departure is current once fully approved")

	signout, _ := statusOf(tl, StageKeySecuritySignout)
	assert.Equal(t, StageCompleted, signout)

	signin, _ := statusOf(tl, StageKeySecuritySignin)
	assert.Equal(t, StagePending, signin)
	assert.Equal(t, ToneSuccess, tl.Summary.Tone)
}

func TestResolve_NamedReviewState(t *testing.T) {
	tests := []struct {
		status  string
		current string
	}{
		{"cmd_review", StageKeyCMDReview},
		{"deputy_dean_review", StageKeyDeputyDeanReview},
		{"deputy-dean_review", StageKeyDeputyDeanReview},
		{"parent_consent", StageKeyParentConsent},
		{"dean_review", StageKeyDeanReview},
		{"hostel_signout", StageKeyHostelSignout},
		{"security_signout", StageKeySecuritySignout},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			tl := Resolve(tt.status, true, nil)
			assert.Equal(t, tt.current, tl.CurrentStageKey())

			// A request mid-review must never show sign-in as reachable.
			signin, _ := statusOf(tl, StageKeySecuritySignin)
			assert.Equal(t, StagePending, signin)
		})
	}
}

func TestResolve_UnknownStatusFallsBackToEvidence(t *testing.T) {
	tl := Resolve("escalated", false, []*entity.Approval{
		approval(entity.RoleDeputyDean, entity.ApprovalApproved),
	})

	assert.Equal(t, StageKeyParentConsent, tl.CurrentStageKey(),
		"unknown status resolves from the last approved stage")
}

func TestResolve_RejectedWithoutRejectedApproval(t *testing.T) {
	// Overall status says rejected but no approval carries the rejection;
	// the otherwise-current stage takes the hit.
	tl := Resolve("rejected", false, []*entity.Approval{
		approval(entity.RoleDeputyDean, entity.ApprovalApproved),
	})

	st, _ := statusOf(tl, StageKeyParentConsent)
	assert.Equal(t, StageRejected, st)

	before, _ := statusOf(tl, StageKeyDeputyDeanReview)
	assert.Equal(t, StageCompleted, before)
}

func TestResolve_CMDStageOnlyForMedical(t *testing.T) {
	for _, status := range []string{"pending", "approved", "rejected", "completed", "security_signin", "escalated"} {
		tl := Resolve(status, false, fullApprovalSet())
		_, ok := statusOf(tl, StageKeyCMDReview)
		assert.False(t, ok, "cmd_review must not appear for non-medical requests (status %s)", status)
	}
}

func TestResolve_SignInApprovalSuppressedBeforeCompletion(t *testing.T) {
	approvals := []*entity.Approval{approval(entity.RoleSecurity, entity.ApprovalApproved)}

	tl := Resolve("security_signin", false, approvals)
	for _, e := range tl.Entries {
		if e.Stage.Key == StageKeySecuritySignin {
			assert.Nil(t, e.Approval, "the lone security approval belongs to sign-out, not sign-in")
		}
	}

	tl = Resolve("completed", false, approvals)
	for _, e := range tl.Entries {
		if e.Stage.Key == StageKeySecuritySignin {
			assert.NotNil(t, e.Approval, "once completed the sign-in stage surfaces its approval")
		}
	}
}

func TestResolve_UnmappedRoleIsIgnored(t *testing.T) {
	withNoise := Resolve("pending", false, []*entity.Approval{
		approval("registrar", entity.ApprovalApproved),
	})
	clean := Resolve("pending", false, nil)

	assert.Equal(t, clean.CurrentIndex, withNoise.CurrentIndex)
	for i := range clean.Entries {
		assert.Equal(t, clean.Entries[i].Status, withNoise.Entries[i].Status)
	}
}

func TestResolve_ExactlyOneCurrentStage(t *testing.T) {
	cases := []struct {
		status    string
		isMedical bool
		approvals []*entity.Approval
	}{
		{"pending", false, nil},
		{"pending", true, nil},
		{"deputy_dean_review", false, nil},
		{"approved", false, fullApprovalSet()},
		{"security_signin", true, fullApprovalSet()},
		{"escalated", true, fullApprovalSet()[:2]},
		{"hostel_signin", false, fullApprovalSet()[:3]},
	}

	for _, tc := range cases {
		tl := Resolve(tc.status, tc.isMedical, tc.approvals)

		var current, rejected int
		for _, e := range tl.Entries {
			switch e.Status {
			case StageCurrent:
				current++
			case StageRejected:
				rejected++
			}
		}
		assert.Equal(t, 1, current, "status %s: exactly one current stage", tc.status)
		assert.Zero(t, rejected)
	}

	// Rejected: exactly one rejected, none current.
	tl := Resolve("rejected", true, []*entity.Approval{approval(entity.RoleDean, entity.ApprovalRejected)})
	var current, rejected int
	for _, e := range tl.Entries {
		switch e.Status {
		case StageCurrent:
			current++
		case StageRejected:
			rejected++
		}
	}
	assert.Zero(t, current)
	assert.Equal(t, 1, rejected)

	// Completed: all completed, none current.
	tl = Resolve("completed", false, fullApprovalSet())
	for _, e := range tl.Entries {
		assert.Equal(t, StageCompleted, e.Status)
	}
}

func TestResolve_MonotonicInCatalogOrder(t *testing.T) {
	cases := []struct {
		status    string
		isMedical bool
		approvals []*entity.Approval
	}{
		{"pending", true, nil},
		{"dean_review", false, fullApprovalSet()[1:]},
		{"approved", true, fullApprovalSet()},
		{"security_signin", false, fullApprovalSet()[1:]},
		{"escalated", true, fullApprovalSet()[:4]},
		{"completed", true, fullApprovalSet()},
	}

	rank := map[StageStatus]int{StageCompleted: 0, StageRejected: 1, StageCurrent: 1, StagePending: 2}

	for _, tc := range cases {
		tl := Resolve(tc.status, tc.isMedical, tc.approvals)
		for i := 1; i < len(tl.Entries); i++ {
			prev := rank[tl.Entries[i-1].Status]
			cur := rank[tl.Entries[i].Status]
			assert.LessOrEqual(t, prev, cur,
				"status %s: stage %s (%s) must not precede %s (%s)",
				tc.status,
				tl.Entries[i-1].Stage.Key, tl.Entries[i-1].Status,
				tl.Entries[i].Stage.Key, tl.Entries[i].Status)
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	approvals := fullApprovalSet()[:3]

	first := Resolve("dean_review", true, approvals)
	second := Resolve("dean_review", true, approvals)

	require.Equal(t, len(first.Entries), len(second.Entries))
	assert.Equal(t, first.CurrentIndex, second.CurrentIndex)
	assert.Equal(t, first.Summary, second.Summary)
	for i := range first.Entries {
		assert.Equal(t, first.Entries[i].Status, second.Entries[i].Status)
	}
}

func TestResolve_EmptyApprovalsNeverPanics(t *testing.T) {
	for _, status := range []string{"pending", "approved", "rejected", "completed", "security_signin", ""} {
		for _, medical := range []bool{true, false} {
			tl := Resolve(status, medical, []*entity.Approval{})
			assert.NotEmpty(t, tl.Entries)
		}
	}
}

func TestSummarize_ConsistentWithStages(t *testing.T) {
	tests := []struct {
		status string
		tone   Tone
	}{
		{"rejected", ToneDanger},
		{"completed", ToneSuccess},
		{"approved", ToneSuccess},
		{"pending", ToneInfo},
		{"dean_review", ToneInfo},
		{"security_signin", ToneInfo},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			s := Summarize(tt.status, false, fullApprovalSet())
			assert.Equal(t, tt.tone, s.Tone)
			assert.NotEmpty(t, s.Headline)
			assert.NotEmpty(t, s.Detail)
		})
	}
}
