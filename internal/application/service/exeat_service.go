package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/internal/domain/workflow"
	"github.com/campus-systems/exeat-workflow/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitInput carries a student's new exeat application
type SubmitInput struct {
	StudentID     int64
	MatricNumber  string
	StudentName   string
	IsMedical     bool
	Reason        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    time.Time
	ParentPhone   string
}

// DecisionInput carries one staff decision against a request
type DecisionInput struct {
	RequestID int64
	StaffID   int64
	StaffName string
	Role      string
	Comment   string
}

// ConsentInput carries a parent consent record. Parent entries have no staff
// identity; Method records how the consent was obtained.
type ConsentInput struct {
	RequestID int64
	Method    string
	Comment   string
}

// TimelineView bundles a request with its resolved pipeline and audit trail
type TimelineView struct {
	Request   *entity.ExeatRequest `json:"request"`
	Timeline  workflow.Timeline    `json:"timeline"`
	AuditLogs []*entity.AuditLog   `json:"audit_logs"`
}

// ExeatService manages exeat requests through the approval pipeline
type ExeatService interface {
	Submit(ctx context.Context, in SubmitInput) (*entity.ExeatRequest, error)
	Get(ctx context.Context, id int64) (*entity.ExeatRequest, error)
	GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error)
	List(ctx context.Context, filter port.ExeatFilter) ([]*entity.ExeatRequest, error)
	Timeline(ctx context.Context, id int64) (*TimelineView, error)
	Approve(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error)
	Reject(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error)
	ParentConsent(ctx context.Context, in ConsentInput) (*entity.ExeatRequest, error)
	MarkDeparted(ctx context.Context, requestID, staffID int64) (*entity.ExeatRequest, error)
	SignIn(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error)
	Stats(ctx context.Context) (map[string]int64, error)
}

type exeatServiceImpl struct {
	exeatRepo    port.ExeatRepository
	approvalRepo port.ApprovalRepository
	auditRepo    port.AuditLogRepository
	debtRepo     port.DebtRepository
	hostelRepo   port.HostelRepository
	txManager    port.TransactionManager
	logger       Logger
}

// NewExeatService creates a new ExeatService
func NewExeatService(
	exeatRepo port.ExeatRepository,
	approvalRepo port.ApprovalRepository,
	auditRepo port.AuditLogRepository,
	debtRepo port.DebtRepository,
	hostelRepo port.HostelRepository,
	txManager port.TransactionManager,
	logger Logger,
) ExeatService {
	return &exeatServiceImpl{
		exeatRepo:    exeatRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
		debtRepo:     debtRepo,
		hostelRepo:   hostelRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Submit creates a new exeat request. Students carrying outstanding debts
// are held back until the debts are cleared.
func (s *exeatServiceImpl) Submit(ctx context.Context, in SubmitInput) (*entity.ExeatRequest, error) {
	if err := utils.ValidateMatricNumber(in.MatricNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := utils.ValidateDateRange(in.DepartureDate, in.ReturnDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Reason == "" || in.Destination == "" {
		return nil, fmt.Errorf("%w: reason and destination are required", ErrInvalidInput)
	}
	if in.ParentPhone != "" {
		if err := utils.ValidatePhone(in.ParentPhone); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	outstanding, err := s.debtRepo.OutstandingTotal(ctx, in.StudentID)
	if err != nil {
		s.logger.Error("Failed to check outstanding debts", "error", err, "student_id", in.StudentID)
		return nil, err
	}
	if outstanding > 0 {
		return nil, fmt.Errorf("%w: %.2f unpaid", ErrOutstandingDebt, outstanding)
	}

	req := &entity.ExeatRequest{
		Reference:     uuid.NewString(),
		StudentID:     in.StudentID,
		MatricNumber:  in.MatricNumber,
		StudentName:   in.StudentName,
		Status:        entity.StatusPending,
		IsMedical:     in.IsMedical,
		Reason:        utils.SanitizeString(in.Reason),
		Destination:   utils.SanitizeString(in.Destination),
		DepartureDate: in.DepartureDate,
		ReturnDate:    in.ReturnDate,
		ParentPhone:   in.ParentPhone,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.exeatRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		log := &entity.AuditLog{
			ExeatRequestID: req.ID,
			Action:         entity.ActionSubmitted,
			Details:        fmt.Sprintf("Exeat request submitted by %s (%s)", req.StudentName, req.MatricNumber),
		}
		if err := s.auditRepo.Create(txCtx, log); err != nil {
			return fmt.Errorf("create audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit exeat request", "error", err, "student_id", in.StudentID)
		return nil, err
	}

	s.logger.Info("Exeat request submitted", "id", req.ID, "reference", req.Reference, "is_medical", req.IsMedical)
	return req, nil
}

// Get retrieves a request by ID
func (s *exeatServiceImpl) Get(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
	req, err := s.exeatRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get exeat request", "error", err, "id", id)
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	return req, nil
}

// GetByReference retrieves a request by its public reference
func (s *exeatServiceImpl) GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error) {
	req, err := s.exeatRepo.GetByReference(ctx, reference)
	if err != nil {
		s.logger.Error("Failed to get exeat request", "error", err, "reference", reference)
		return nil, err
	}
	if req == nil {
		return nil, ErrNotFound
	}
	return req, nil
}

// List retrieves requests matching the filter
func (s *exeatServiceImpl) List(ctx context.Context, filter port.ExeatFilter) ([]*entity.ExeatRequest, error) {
	requests, err := s.exeatRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list exeat requests", "error", err)
		return nil, err
	}
	return requests, nil
}

// Timeline resolves the full pipeline view for a request
func (s *exeatServiceImpl) Timeline(ctx context.Context, id int64) (*TimelineView, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	approvals, err := s.approvalRepo.GetByRequestID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get approvals", "error", err, "id", id)
		return nil, err
	}

	logs, err := s.auditRepo.GetByRequestID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get audit logs", "error", err, "id", id)
		return nil, err
	}

	return &TimelineView{
		Request:   req,
		Timeline:  workflow.Resolve(req.Status, req.IsMedical, approvals),
		AuditLogs: logs,
	}, nil
}

// Approve records an approving decision by the given role and advances the
// request to the next pipeline state
func (s *exeatServiceImpl) Approve(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error) {
	trigger, ok := workflow.TriggerForRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, in.Role)
	}

	return s.transition(ctx, in.RequestID, trigger, func(txCtx context.Context, req *entity.ExeatRequest) error {
		approval := &entity.Approval{
			ExeatRequestID: req.ID,
			StaffID:        &in.StaffID,
			StaffName:      in.StaffName,
			Role:           in.Role,
			Status:         entity.ApprovalApproved,
			Comment:        utils.SanitizeString(in.Comment),
		}
		if err := s.approvalRepo.Create(txCtx, approval); err != nil {
			return fmt.Errorf("create approval: %w", err)
		}

		details := fmt.Sprintf("Approved by %s (%s)", in.StaffName, in.Role)
		if in.Role == entity.RoleHostelAdmin {
			if asg, err := s.hostelRepo.GetByStudent(txCtx, req.StudentID); err == nil && asg != nil {
				details = fmt.Sprintf("%s at %s", details, asg.HostelName)
			}
		}

		return s.audit(txCtx, req.ID, &in.StaffID, entity.ActionApproved, details)
	})
}

// Reject records a rejecting decision and closes the request
func (s *exeatServiceImpl) Reject(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error) {
	if _, ok := workflow.TriggerForRole(in.Role); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, in.Role)
	}

	return s.transition(ctx, in.RequestID, workflow.TriggerReject, func(txCtx context.Context, req *entity.ExeatRequest) error {
		approval := &entity.Approval{
			ExeatRequestID: req.ID,
			StaffID:        &in.StaffID,
			StaffName:      in.StaffName,
			Role:           in.Role,
			Status:         entity.ApprovalRejected,
			Comment:        utils.SanitizeString(in.Comment),
		}
		if err := s.approvalRepo.Create(txCtx, approval); err != nil {
			return fmt.Errorf("create approval: %w", err)
		}

		return s.audit(txCtx, req.ID, &in.StaffID, entity.ActionRejected,
			fmt.Sprintf("Rejected by %s (%s)", in.StaffName, in.Role))
	})
}

// ParentConsent records a guardian's consent. Consent entries are stored
// under the generic "unknown" role with no staff identity.
func (s *exeatServiceImpl) ParentConsent(ctx context.Context, in ConsentInput) (*entity.ExeatRequest, error) {
	return s.transition(ctx, in.RequestID, workflow.TriggerParentConsent, func(txCtx context.Context, req *entity.ExeatRequest) error {
		approval := &entity.Approval{
			ExeatRequestID: req.ID,
			Role:           entity.RoleUnknown,
			Status:         entity.ApprovalApproved,
			Comment:        utils.SanitizeString(in.Comment),
			Method:         in.Method,
		}
		if err := s.approvalRepo.Create(txCtx, approval); err != nil {
			return fmt.Errorf("create approval: %w", err)
		}

		return s.audit(txCtx, req.ID, nil, entity.ActionParentConsent,
			fmt.Sprintf("Parent consent received via %s", in.Method))
	})
}

// MarkDeparted records the student physically leaving campus. Departure is
// an action, not an approval, so no approval record is written.
func (s *exeatServiceImpl) MarkDeparted(ctx context.Context, requestID, staffID int64) (*entity.ExeatRequest, error) {
	return s.transition(ctx, requestID, workflow.TriggerDepart, func(txCtx context.Context, req *entity.ExeatRequest) error {
		return s.audit(txCtx, req.ID, &staffID, entity.ActionDeparted, "Student departed campus")
	})
}

// SignIn records the student's return at the gate and completes the request.
// The security approval written at sign-out is the one the sign-in stage
// surfaces once the request is completed, so no second approval is recorded.
func (s *exeatServiceImpl) SignIn(ctx context.Context, in DecisionInput) (*entity.ExeatRequest, error) {
	return s.transition(ctx, in.RequestID, workflow.TriggerSecuritySignIn, func(txCtx context.Context, req *entity.ExeatRequest) error {
		if err := s.exeatRepo.SetActualReturn(txCtx, req.ID, time.Now()); err != nil {
			return fmt.Errorf("set actual return: %w", err)
		}

		return s.audit(txCtx, req.ID, &in.StaffID, entity.ActionSecuritySignin,
			fmt.Sprintf("Student signed back in by %s", in.StaffName))
	})
}

// Stats returns request counts per status
func (s *exeatServiceImpl) Stats(ctx context.Context) (map[string]int64, error) {
	counts, err := s.exeatRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to get stats", "error", err)
		return nil, err
	}
	return counts, nil
}

// transition loads the request, fires the trigger through the pipeline
// machine, and persists the new status together with the caller's side
// effects in one transaction
func (s *exeatServiceImpl) transition(
	ctx context.Context,
	requestID int64,
	trigger workflow.Trigger,
	record func(txCtx context.Context, req *entity.ExeatRequest) error,
) (*entity.ExeatRequest, error) {
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", ErrRequestClosed, req.Status)
	}

	current := workflow.NormalizeStatus(req.Status)
	if !current.IsValid() {
		return nil, fmt.Errorf("%w: %s", workflow.ErrInvalidState, req.Status)
	}

	machine := workflow.NewPipeline(req.IsMedical, current)
	if err := machine.Fire(ctx, trigger); err != nil {
		s.logger.Error("Transition refused", "error", err, "id", requestID, "trigger", trigger, "status", req.Status)
		return nil, err
	}
	newStatus := machine.State().String()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.exeatRepo.UpdateStatus(txCtx, req.ID, newStatus); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return record(txCtx, req)
	})
	if err != nil {
		s.logger.Error("Failed to apply transition", "error", err, "id", requestID, "trigger", trigger)
		return nil, err
	}

	req.Status = newStatus
	s.logger.Info("Exeat request transitioned", "id", req.ID, "trigger", trigger, "status", newStatus)
	return req, nil
}

func (s *exeatServiceImpl) audit(ctx context.Context, requestID int64, staffID *int64, action, details string) error {
	log := &entity.AuditLog{
		ExeatRequestID: requestID,
		StaffID:        staffID,
		Action:         action,
		Details:        details,
	}
	if err := s.auditRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
