package port

import (
	"context"
	"time"

	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

// ExeatFilter narrows List queries
type ExeatFilter struct {
	Status    string
	StudentID int64
	Limit     int
	Offset    int
}

// ExeatRepository defines persistence operations for ExeatRequest
type ExeatRepository interface {
	Create(ctx context.Context, req *entity.ExeatRequest) error
	GetByID(ctx context.Context, id int64) (*entity.ExeatRequest, error)
	GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	SetActualReturn(ctx context.Context, id int64, t time.Time) error
	List(ctx context.Context, filter ExeatFilter) ([]*entity.ExeatRequest, error)
	ListDeparted(ctx context.Context, before time.Time, limit int) ([]*entity.ExeatRequest, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ApprovalRepository defines persistence operations for Approval
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Approval, error)
}

// AuditLogRepository defines persistence operations for AuditLog
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	GetByRequestID(ctx context.Context, requestID int64) ([]*entity.AuditLog, error)
}

// DebtRepository defines persistence operations for StudentDebt
type DebtRepository interface {
	Create(ctx context.Context, debt *entity.StudentDebt) error
	GetByID(ctx context.Context, id int64) (*entity.StudentDebt, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*entity.StudentDebt, error)
	OutstandingTotal(ctx context.Context, studentID int64) (float64, error)
	Clear(ctx context.Context, id int64, clearedBy int64, at time.Time) error
}

// HostelRepository defines persistence operations for HostelAssignment
type HostelRepository interface {
	Upsert(ctx context.Context, assignment *entity.HostelAssignment) error
	GetByStudent(ctx context.Context, studentID int64) (*entity.HostelAssignment, error)
	ListByHostel(ctx context.Context, hostelName string, limit, offset int) ([]*entity.HostelAssignment, error)
	Delete(ctx context.Context, studentID int64) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
