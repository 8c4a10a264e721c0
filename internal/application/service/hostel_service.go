package service

import (
	"context"
	"fmt"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

// HostelService manages student hostel assignments
type HostelService interface {
	Assign(ctx context.Context, studentID int64, hostelName, roomNumber string, assignedBy int64) (*entity.HostelAssignment, error)
	GetByStudent(ctx context.Context, studentID int64) (*entity.HostelAssignment, error)
	ListByHostel(ctx context.Context, hostelName string, limit, offset int) ([]*entity.HostelAssignment, error)
	Unassign(ctx context.Context, studentID int64) error
}

type hostelServiceImpl struct {
	hostelRepo port.HostelRepository
	logger     Logger
}

// NewHostelService creates a new HostelService
func NewHostelService(hostelRepo port.HostelRepository, logger Logger) HostelService {
	return &hostelServiceImpl{
		hostelRepo: hostelRepo,
		logger:     logger,
	}
}

// Assign places a student in a hostel, replacing any previous assignment
func (s *hostelServiceImpl) Assign(ctx context.Context, studentID int64, hostelName, roomNumber string, assignedBy int64) (*entity.HostelAssignment, error) {
	if hostelName == "" {
		return nil, fmt.Errorf("%w: hostel name is required", ErrInvalidInput)
	}

	assignment := &entity.HostelAssignment{
		StudentID:  studentID,
		HostelName: hostelName,
		RoomNumber: roomNumber,
		AssignedBy: assignedBy,
	}

	if err := s.hostelRepo.Upsert(ctx, assignment); err != nil {
		s.logger.Error("Failed to assign hostel", "error", err, "student_id", studentID)
		return nil, err
	}

	s.logger.Info("Hostel assigned", "student_id", studentID, "hostel", hostelName, "room", roomNumber)
	return assignment, nil
}

// GetByStudent retrieves a student's assignment
func (s *hostelServiceImpl) GetByStudent(ctx context.Context, studentID int64) (*entity.HostelAssignment, error) {
	assignment, err := s.hostelRepo.GetByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to get hostel assignment", "error", err, "student_id", studentID)
		return nil, err
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	return assignment, nil
}

// ListByHostel retrieves assignments for one hostel
func (s *hostelServiceImpl) ListByHostel(ctx context.Context, hostelName string, limit, offset int) ([]*entity.HostelAssignment, error) {
	assignments, err := s.hostelRepo.ListByHostel(ctx, hostelName, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list hostel assignments", "error", err, "hostel", hostelName)
		return nil, err
	}
	return assignments, nil
}

// Unassign removes a student's assignment
func (s *hostelServiceImpl) Unassign(ctx context.Context, studentID int64) error {
	if err := s.hostelRepo.Delete(ctx, studentID); err != nil {
		s.logger.Error("Failed to unassign hostel", "error", err, "student_id", studentID)
		return err
	}

	s.logger.Info("Hostel unassigned", "student_id", studentID)
	return nil
}
