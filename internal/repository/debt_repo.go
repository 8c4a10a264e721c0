package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/pkg/database"
)

// DebtRepository implements port.DebtRepository over SQLite
type DebtRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDebtRepository creates a new student debt repository
func NewDebtRepository(db *sql.DB, logger *zap.Logger) port.DebtRepository {
	return &DebtRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new outstanding debt
func (r *DebtRepository) Create(ctx context.Context, debt *entity.StudentDebt) error {
	query := `
		INSERT INTO student_debts (student_id, description, amount, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		debt.StudentID,
		debt.Description,
		debt.Amount,
		debt.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create debt", zap.Error(err))
		return fmt.Errorf("failed to create debt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	debt.ID = id
	return nil
}

// GetByID retrieves a debt by ID
func (r *DebtRepository) GetByID(ctx context.Context, id int64) (*entity.StudentDebt, error) {
	query := `
		SELECT id, student_id, description, amount, status, cleared_by,
			cleared_at, created_at, updated_at
		FROM student_debts
		WHERE id = ?
	`

	row := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, id)
	debt, err := scanDebt(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get debt", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListByStudent retrieves all debts for a student, newest first
func (r *DebtRepository) ListByStudent(ctx context.Context, studentID int64) ([]*entity.StudentDebt, error) {
	query := `
		SELECT id, student_id, description, amount, status, cleared_by,
			cleared_at, created_at, updated_at
		FROM student_debts
		WHERE student_id = ?
		ORDER BY created_at DESC
	`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, studentID)
	if err != nil {
		r.logger.Error("Failed to list debts", zap.Int64("student_id", studentID), zap.Error(err))
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*entity.StudentDebt
	for rows.Next() {
		debt, err := scanDebt(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

// OutstandingTotal sums the student's unpaid debts
func (r *DebtRepository) OutstandingTotal(ctx context.Context, studentID int64) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM student_debts
		WHERE student_id = ? AND status = ?
	`

	var total float64
	err := database.ExecutorFrom(ctx, r.db).
		QueryRowContext(ctx, query, studentID, entity.DebtOutstanding).
		Scan(&total)
	if err != nil {
		r.logger.Error("Failed to sum outstanding debts", zap.Int64("student_id", studentID), zap.Error(err))
		return 0, fmt.Errorf("failed to sum outstanding debts: %w", err)
	}
	return total, nil
}

// Clear marks a debt as cleared
func (r *DebtRepository) Clear(ctx context.Context, id int64, clearedBy int64, at time.Time) error {
	query := `
		UPDATE student_debts
		SET status = ?, cleared_by = ?, cleared_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		entity.DebtCleared, clearedBy, at, id)
	if err != nil {
		r.logger.Error("Failed to clear debt", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to clear debt: %w", err)
	}
	return nil
}

func scanDebt(scan func(dest ...interface{}) error) (*entity.StudentDebt, error) {
	var debt entity.StudentDebt
	var clearedBy sql.NullInt64
	var clearedAt sql.NullTime

	err := scan(
		&debt.ID,
		&debt.StudentID,
		&debt.Description,
		&debt.Amount,
		&debt.Status,
		&clearedBy,
		&clearedAt,
		&debt.CreatedAt,
		&debt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if clearedBy.Valid {
		debt.ClearedBy = &clearedBy.Int64
	}
	if clearedAt.Valid {
		debt.ClearedAt = &clearedAt.Time
	}
	return &debt, nil
}
