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

// AuditLogRepository implements port.AuditLogRepository over SQLite
type AuditLogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *sql.DB, logger *zap.Logger) port.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (exeat_request_id, staff_id, action, details)
		VALUES (?, ?, ?, ?)
	`

	result, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		log.ExeatRequestID,
		log.StaffID,
		log.Action,
		log.Details,
	)
	if err != nil {
		r.logger.Error("Failed to create audit log", zap.Error(err))
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	log.ID = id
	return nil
}

// GetByRequestID retrieves the audit trail for a request, oldest first
func (r *AuditLogRepository) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.AuditLog, error) {
	query := `
		SELECT id, exeat_request_id, staff_id, action, details, timestamp
		FROM audit_logs
		WHERE exeat_request_id = ?
		ORDER BY id ASC
	`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get audit logs", zap.Int64("exeat_request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		var staffID sql.NullInt64

		err := rows.Scan(&l.ID, &l.ExeatRequestID, &staffID, &l.Action, &l.Details, &l.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		if staffID.Valid {
			l.StaffID = &staffID.Int64
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
