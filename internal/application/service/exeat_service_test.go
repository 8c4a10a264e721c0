package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/internal/domain/workflow"
)

// Mock repositories

type mockExeatRepo struct {
	createFunc       func(ctx context.Context, req *entity.ExeatRequest) error
	getByIDFunc      func(ctx context.Context, id int64) (*entity.ExeatRequest, error)
	updateStatusFunc func(ctx context.Context, id int64, status string) error
	statuses         []string
}

func (m *mockExeatRepo) Create(ctx context.Context, req *entity.ExeatRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	req.ID = 1
	return nil
}

func (m *mockExeatRepo) GetByID(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.ExeatRequest{ID: id, StudentID: 7, Status: entity.StatusPending}, nil
}

func (m *mockExeatRepo) GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error) {
	return nil, nil
}

func (m *mockExeatRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	m.statuses = append(m.statuses, status)
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockExeatRepo) SetActualReturn(ctx context.Context, id int64, t time.Time) error {
	return nil
}

func (m *mockExeatRepo) List(ctx context.Context, filter port.ExeatFilter) ([]*entity.ExeatRequest, error) {
	return []*entity.ExeatRequest{}, nil
}

func (m *mockExeatRepo) ListDeparted(ctx context.Context, before time.Time, limit int) ([]*entity.ExeatRequest, error) {
	return []*entity.ExeatRequest{}, nil
}

func (m *mockExeatRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type mockApprovalRepo struct {
	created []*entity.Approval
}

func (m *mockApprovalRepo) Create(ctx context.Context, approval *entity.Approval) error {
	approval.ID = int64(len(m.created) + 1)
	m.created = append(m.created, approval)
	return nil
}

func (m *mockApprovalRepo) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Approval, error) {
	return m.created, nil
}

type mockAuditRepo struct {
	created []*entity.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	log.ID = int64(len(m.created) + 1)
	m.created = append(m.created, log)
	return nil
}

func (m *mockAuditRepo) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.AuditLog, error) {
	return m.created, nil
}

type mockDebtRepo struct {
	outstanding float64
}

func (m *mockDebtRepo) Create(ctx context.Context, debt *entity.StudentDebt) error { return nil }

func (m *mockDebtRepo) GetByID(ctx context.Context, id int64) (*entity.StudentDebt, error) {
	return nil, nil
}

func (m *mockDebtRepo) ListByStudent(ctx context.Context, studentID int64) ([]*entity.StudentDebt, error) {
	return nil, nil
}

func (m *mockDebtRepo) OutstandingTotal(ctx context.Context, studentID int64) (float64, error) {
	return m.outstanding, nil
}

func (m *mockDebtRepo) Clear(ctx context.Context, id int64, clearedBy int64, at time.Time) error {
	return nil
}

type mockHostelRepo struct {
	assignment *entity.HostelAssignment
}

func (m *mockHostelRepo) Upsert(ctx context.Context, assignment *entity.HostelAssignment) error {
	m.assignment = assignment
	return nil
}

func (m *mockHostelRepo) GetByStudent(ctx context.Context, studentID int64) (*entity.HostelAssignment, error) {
	return m.assignment, nil
}

func (m *mockHostelRepo) ListByHostel(ctx context.Context, hostelName string, limit, offset int) ([]*entity.HostelAssignment, error) {
	return nil, nil
}

func (m *mockHostelRepo) Delete(ctx context.Context, studentID int64) error { return nil }

type mockTxManager struct{}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

type fixture struct {
	exeats    *mockExeatRepo
	approvals *mockApprovalRepo
	audits    *mockAuditRepo
	debts     *mockDebtRepo
	hostels   *mockHostelRepo
	svc       ExeatService
}

func newFixture() *fixture {
	f := &fixture{
		exeats:    &mockExeatRepo{},
		approvals: &mockApprovalRepo{},
		audits:    &mockAuditRepo{},
		debts:     &mockDebtRepo{},
		hostels:   &mockHostelRepo{},
	}
	f.svc = NewExeatService(f.exeats, f.approvals, f.audits, f.debts, f.hostels, &mockTxManager{}, nopLogger{})
	return f
}

func validSubmitInput() SubmitInput {
	return SubmitInput{
		StudentID:     7,
		MatricNumber:  "VUG/21/4102",
		StudentName:   "Ada Obi",
		Reason:        "Family event",
		Destination:   "Lagos",
		DepartureDate: time.Now().Add(24 * time.Hour),
		ReturnDate:    time.Now().Add(72 * time.Hour),
		ParentPhone:   "+2348012345678",
	}
}

func TestSubmit_CreatesPendingRequestWithAudit(t *testing.T) {
	f := newFixture()

	req, err := f.svc.Submit(context.Background(), validSubmitInput())
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, req.Status)
	assert.NotEmpty(t, req.Reference)
	require.Len(t, f.audits.created, 1)
	assert.Equal(t, entity.ActionSubmitted, f.audits.created[0].Action)
}

func TestSubmit_BlockedByOutstandingDebt(t *testing.T) {
	f := newFixture()
	f.debts.outstanding = 1500

	_, err := f.svc.Submit(context.Background(), validSubmitInput())
	assert.ErrorIs(t, err, ErrOutstandingDebt)
	assert.Empty(t, f.audits.created)
}

func TestSubmit_RejectsInvertedDates(t *testing.T) {
	f := newFixture()
	in := validSubmitInput()
	in.ReturnDate = in.DepartureDate.Add(-time.Hour)

	_, err := f.svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApprove_AdvancesStatusAndRecordsApproval(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, StudentID: 7, Status: entity.StatusDeputyDeanReview}, nil
	}

	req, err := f.svc.Approve(context.Background(), DecisionInput{
		RequestID: 1,
		StaffID:   42,
		StaffName: "Dr. Bello",
		Role:      entity.RoleDeputyDean,
		Comment:   "Cleared",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusParentConsent, req.Status)
	require.Len(t, f.approvals.created, 1)
	assert.Equal(t, entity.RoleDeputyDean, f.approvals.created[0].Role)
	assert.Equal(t, entity.ApprovalApproved, f.approvals.created[0].Status)
	require.Len(t, f.exeats.statuses, 1)
	assert.Equal(t, entity.StatusParentConsent, f.exeats.statuses[0])
}

func TestApprove_WrongRoleForStage(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusDeanReview}, nil
	}

	// The deputy dean cannot act while the request waits on the dean.
	_, err := f.svc.Approve(context.Background(), DecisionInput{
		RequestID: 1,
		Role:      entity.RoleDeputyDean,
	})
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Empty(t, f.approvals.created)
}

func TestApprove_UnknownRole(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Approve(context.Background(), DecisionInput{RequestID: 1, Role: "registrar"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestApprove_ClosedRequest(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusCompleted}, nil
	}

	_, err := f.svc.Approve(context.Background(), DecisionInput{RequestID: 1, Role: entity.RoleDean})
	assert.ErrorIs(t, err, ErrRequestClosed)
}

func TestApprove_MedicalCMDFirst(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusPending, IsMedical: true}, nil
	}

	req, err := f.svc.Approve(context.Background(), DecisionInput{
		RequestID: 1,
		StaffID:   9,
		StaffName: "Dr. Musa",
		Role:      entity.RoleCMD,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeputyDeanReview, req.Status)
}

func TestReject_ClosesRequest(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusDeanReview}, nil
	}

	req, err := f.svc.Reject(context.Background(), DecisionInput{
		RequestID: 1,
		StaffID:   3,
		StaffName: "Prof. Eze",
		Role:      entity.RoleDean,
		Comment:   "Mid-semester tests",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusRejected, req.Status)
	require.Len(t, f.approvals.created, 1)
	assert.Equal(t, entity.ApprovalRejected, f.approvals.created[0].Status)
}

func TestParentConsent_RecordsUnknownRoleWithoutStaff(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusParentConsent}, nil
	}

	req, err := f.svc.ParentConsent(context.Background(), ConsentInput{
		RequestID: 1,
		Method:    entity.ConsentMethodCall,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDeanReview, req.Status)
	require.Len(t, f.approvals.created, 1)
	assert.Equal(t, entity.RoleUnknown, f.approvals.created[0].Role)
	assert.Nil(t, f.approvals.created[0].StaffID)
	assert.Equal(t, entity.ConsentMethodCall, f.approvals.created[0].Method)
}

func TestMarkDeparted_NoApprovalRecord(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusApproved}, nil
	}

	req, err := f.svc.MarkDeparted(context.Background(), 1, 5)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusSecuritySignin, req.Status)
	assert.Empty(t, f.approvals.created, "departure is an action, not an approval")
	require.Len(t, f.audits.created, 1)
	assert.Equal(t, entity.ActionDeparted, f.audits.created[0].Action)
}

func TestSignIn_CompletesRequest(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusSecuritySignin}, nil
	}

	req, err := f.svc.SignIn(context.Background(), DecisionInput{
		RequestID: 1,
		StaffID:   6,
		StaffName: "Ofc. Garba",
		Role:      entity.RoleSecurity,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, req.Status)
	assert.Empty(t, f.approvals.created, "sign-in reuses the sign-out approval")
}

func TestTimeline_ResolvesFromPersistedRecords(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusParentConsent}, nil
	}
	f.approvals.created = []*entity.Approval{
		{Role: entity.RoleDeputyDean, Status: entity.ApprovalApproved},
	}

	view, err := f.svc.Timeline(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "parent_consent", view.Timeline.CurrentStageKey())
	assert.NotEmpty(t, view.Timeline.Entries)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return nil, nil
	}

	_, err := f.svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_RepoFailureRollsBackStatus(t *testing.T) {
	f := newFixture()
	f.exeats.getByIDFunc = func(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
		return &entity.ExeatRequest{ID: id, Status: entity.StatusDeanReview}, nil
	}
	f.exeats.updateStatusFunc = func(ctx context.Context, id int64, status string) error {
		return errors.New("disk full")
	}

	_, err := f.svc.Approve(context.Background(), DecisionInput{
		RequestID: 1,
		Role:      entity.RoleDean,
	})
	assert.Error(t, err)
}
