package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/pkg/database"
)

// ApprovalRepository implements port.ApprovalRepository over SQLite
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new approval record
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (
			exeat_request_id, staff_id, staff_name, role, status, comment, method
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		approval.ExeatRequestID,
		approval.StaffID,
		approval.StaffName,
		approval.Role,
		approval.Status,
		approval.Comment,
		approval.Method,
	)
	if err != nil {
		r.logger.Error("Failed to create approval", zap.Error(err))
		return fmt.Errorf("failed to create approval: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	approval.ID = id
	return nil
}

// GetByRequestID retrieves all approvals for a request in insertion order.
// The workflow engine takes the first role match, so insertion order is the
// tie-break for duplicate roles.
func (r *ApprovalRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.Approval, error) {
	query := `
		SELECT id, exeat_request_id, staff_id, staff_name, role, status,
			comment, method, created_at, updated_at
		FROM approvals
		WHERE exeat_request_id = ?
		ORDER BY id ASC
	`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get approvals", zap.Int64("exeat_request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get approvals: %w", err)
	}
	defer rows.Close()

	var approvals []*entity.Approval
	for rows.Next() {
		var a entity.Approval
		var staffID sql.NullInt64
		var staffName, comment, method sql.NullString

		err := rows.Scan(
			&a.ID,
			&a.ExeatRequestID,
			&staffID,
			&staffName,
			&a.Role,
			&a.Status,
			&comment,
			&method,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}

		if staffID.Valid {
			a.StaffID = &staffID.Int64
		}
		a.StaffName = staffName.String
		a.Comment = comment.String
		a.Method = method.String

		approvals = append(approvals, &a)
	}
	return approvals, rows.Err()
}
