package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/pkg/database"
)

// ExeatRepository implements port.ExeatRepository over SQLite
type ExeatRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExeatRepository creates a new exeat request repository
func NewExeatRepository(db *sql.DB, logger *zap.Logger) port.ExeatRepository {
	return &ExeatRepository{
		db:     db,
		logger: logger,
	}
}

const exeatColumns = `id, reference, student_id, matric_number, student_name,
	status, is_medical, reason, destination, departure_date, return_date,
	parent_phone, actual_return, created_at, updated_at`

// Create inserts a new exeat request
func (r *ExeatRepository) Create(ctx context.Context, req *entity.ExeatRequest) error {
	query := `
		INSERT INTO exeat_requests (
			reference, student_id, matric_number, student_name, status,
			is_medical, reason, destination, departure_date, return_date,
			parent_phone
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		req.Reference,
		req.StudentID,
		req.MatricNumber,
		req.StudentName,
		req.Status,
		req.IsMedical,
		req.Reason,
		req.Destination,
		req.DepartureDate,
		req.ReturnDate,
		req.ParentPhone,
	)
	if err != nil {
		r.logger.Error("Failed to create exeat request", zap.Error(err))
		return fmt.Errorf("failed to create exeat request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves an exeat request by ID
func (r *ExeatRepository) GetByID(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM exeat_requests WHERE id = ?`, exeatColumns)
	return r.scanOne(ctx, query, id)
}

// GetByReference retrieves an exeat request by its public reference
func (r *ExeatRepository) GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM exeat_requests WHERE reference = ?`, exeatColumns)
	return r.scanOne(ctx, query, reference)
}

func (r *ExeatRepository) scanOne(ctx context.Context, query string, arg interface{}) (*entity.ExeatRequest, error) {
	row := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, arg)

	req, err := scanExeat(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get exeat request", zap.Error(err))
		return nil, fmt.Errorf("failed to get exeat request: %w", err)
	}
	return req, nil
}

// UpdateStatus updates the status of an exeat request
func (r *ExeatRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE exeat_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update status: %w", err)
	}

	return nil
}

// SetActualReturn records the time the student signed back in
func (r *ExeatRepository) SetActualReturn(ctx context.Context, id int64, t time.Time) error {
	query := `UPDATE exeat_requests SET actual_return = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, t, id)
	if err != nil {
		r.logger.Error("Failed to set actual return", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set actual return: %w", err)
	}

	return nil
}

// List retrieves exeat requests matching the filter, newest first
func (r *ExeatRepository) List(ctx context.Context, filter port.ExeatFilter) ([]*entity.ExeatRequest, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.StudentID != 0 {
		conds = append(conds, "student_id = ?")
		args = append(args, filter.StudentID)
	}

	query := fmt.Sprintf(`SELECT %s FROM exeat_requests`, exeatColumns)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	return r.scanMany(ctx, query, args...)
}

// ListDeparted retrieves departed-but-not-returned requests whose expected
// return date is before the cutoff
func (r *ExeatRepository) ListDeparted(ctx context.Context, before time.Time, limit int) ([]*entity.ExeatRequest, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM exeat_requests
		WHERE status = ? AND return_date < ?
		ORDER BY return_date ASC LIMIT ?`, exeatColumns)

	return r.scanMany(ctx, query, entity.StatusSecuritySignin, before, limit)
}

func (r *ExeatRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]*entity.ExeatRequest, error) {
	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list exeat requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list exeat requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.ExeatRequest
	for rows.Next() {
		req, err := scanExeat(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exeat request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// CountByStatus returns the number of requests per status
func (r *ExeatRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM exeat_requests GROUP BY status`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count by status", zap.Error(err))
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// scanExeat scans one row into an ExeatRequest using the given scan function
func scanExeat(scan func(dest ...interface{}) error) (*entity.ExeatRequest, error) {
	var req entity.ExeatRequest
	var actualReturn sql.NullTime

	err := scan(
		&req.ID,
		&req.Reference,
		&req.StudentID,
		&req.MatricNumber,
		&req.StudentName,
		&req.Status,
		&req.IsMedical,
		&req.Reason,
		&req.Destination,
		&req.DepartureDate,
		&req.ReturnDate,
		&req.ParentPhone,
		&actualReturn,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if actualReturn.Valid {
		req.ActualReturn = &actualReturn.Time
	}
	return &req, nil
}
