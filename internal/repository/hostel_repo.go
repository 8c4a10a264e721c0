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

// HostelRepository implements port.HostelRepository over SQLite
type HostelRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHostelRepository creates a new hostel assignment repository
func NewHostelRepository(db *sql.DB, logger *zap.Logger) port.HostelRepository {
	return &HostelRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces a student's hostel assignment. A student has at
// most one assignment.
func (r *HostelRepository) Upsert(ctx context.Context, assignment *entity.HostelAssignment) error {
	query := `
		INSERT INTO hostel_assignments (student_id, hostel_name, room_number, assigned_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(student_id) DO UPDATE SET
			hostel_name = excluded.hostel_name,
			room_number = excluded.room_number,
			assigned_by = excluded.assigned_by,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query,
		assignment.StudentID,
		assignment.HostelName,
		assignment.RoomNumber,
		assignment.AssignedBy,
	)
	if err != nil {
		r.logger.Error("Failed to upsert hostel assignment", zap.Int64("student_id", assignment.StudentID), zap.Error(err))
		return fmt.Errorf("failed to upsert hostel assignment: %w", err)
	}
	return nil
}

// GetByStudent retrieves a student's hostel assignment
func (r *HostelRepository) GetByStudent(ctx context.Context, studentID int64) (*entity.HostelAssignment, error) {
	query := `
		SELECT id, student_id, hostel_name, room_number, assigned_by,
			created_at, updated_at
		FROM hostel_assignments
		WHERE student_id = ?
	`

	var a entity.HostelAssignment
	var room sql.NullString

	err := database.ExecutorFrom(ctx, r.db).QueryRowContext(ctx, query, studentID).Scan(
		&a.ID,
		&a.StudentID,
		&a.HostelName,
		&room,
		&a.AssignedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get hostel assignment", zap.Int64("student_id", studentID), zap.Error(err))
		return nil, fmt.Errorf("failed to get hostel assignment: %w", err)
	}

	a.RoomNumber = room.String
	return &a, nil
}

// ListByHostel retrieves assignments for one hostel
func (r *HostelRepository) ListByHostel(ctx context.Context, hostelName string, limit, offset int) ([]*entity.HostelAssignment, error) {
	query := `
		SELECT id, student_id, hostel_name, room_number, assigned_by,
			created_at, updated_at
		FROM hostel_assignments
		WHERE hostel_name = ?
		ORDER BY room_number ASC
		LIMIT ? OFFSET ?
	`

	rows, err := database.ExecutorFrom(ctx, r.db).QueryContext(ctx, query, hostelName, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list hostel assignments", zap.String("hostel", hostelName), zap.Error(err))
		return nil, fmt.Errorf("failed to list hostel assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*entity.HostelAssignment
	for rows.Next() {
		var a entity.HostelAssignment
		var room sql.NullString

		err := rows.Scan(&a.ID, &a.StudentID, &a.HostelName, &room, &a.AssignedBy, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hostel assignment: %w", err)
		}

		a.RoomNumber = room.String
		assignments = append(assignments, &a)
	}
	return assignments, rows.Err()
}

// Delete removes a student's hostel assignment
func (r *HostelRepository) Delete(ctx context.Context, studentID int64) error {
	query := `DELETE FROM hostel_assignments WHERE student_id = ?`

	_, err := database.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, studentID)
	if err != nil {
		r.logger.Error("Failed to delete hostel assignment", zap.Int64("student_id", studentID), zap.Error(err))
		return fmt.Errorf("failed to delete hostel assignment: %w", err)
	}
	return nil
}
