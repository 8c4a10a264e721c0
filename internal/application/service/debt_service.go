package service

import (
	"context"
	"fmt"
	"time"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
	"github.com/campus-systems/exeat-workflow/pkg/utils"
)

// DebtService manages student debts that hold back new exeat submissions
type DebtService interface {
	Create(ctx context.Context, studentID int64, description string, amount float64) (*entity.StudentDebt, error)
	Clear(ctx context.Context, debtID, clearedBy int64) (*entity.StudentDebt, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*entity.StudentDebt, error)
	OutstandingTotal(ctx context.Context, studentID int64) (float64, error)
}

type debtServiceImpl struct {
	debtRepo port.DebtRepository
	logger   Logger
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo port.DebtRepository, logger Logger) DebtService {
	return &debtServiceImpl{
		debtRepo: debtRepo,
		logger:   logger,
	}
}

// Create records a new outstanding debt against a student
func (s *debtServiceImpl) Create(ctx context.Context, studentID int64, description string, amount float64) (*entity.StudentDebt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	debt := &entity.StudentDebt{
		StudentID:   studentID,
		Description: utils.SanitizeString(description),
		Amount:      amount,
		Status:      entity.DebtOutstanding,
	}

	if err := s.debtRepo.Create(ctx, debt); err != nil {
		s.logger.Error("Failed to create debt", "error", err, "student_id", studentID)
		return nil, err
	}

	s.logger.Info("Debt created", "id", debt.ID, "student_id", studentID, "amount", amount)
	return debt, nil
}

// Clear marks a debt as paid
func (s *debtServiceImpl) Clear(ctx context.Context, debtID, clearedBy int64) (*entity.StudentDebt, error) {
	debt, err := s.debtRepo.GetByID(ctx, debtID)
	if err != nil {
		s.logger.Error("Failed to get debt", "error", err, "id", debtID)
		return nil, err
	}
	if debt == nil {
		return nil, ErrNotFound
	}
	if debt.Status == entity.DebtCleared {
		return debt, nil
	}

	now := time.Now()
	if err := s.debtRepo.Clear(ctx, debtID, clearedBy, now); err != nil {
		s.logger.Error("Failed to clear debt", "error", err, "id", debtID)
		return nil, err
	}

	debt.Status = entity.DebtCleared
	debt.ClearedBy = &clearedBy
	debt.ClearedAt = &now

	s.logger.Info("Debt cleared", "id", debtID, "cleared_by", clearedBy)
	return debt, nil
}

// ListByStudent retrieves all debts for a student
func (s *debtServiceImpl) ListByStudent(ctx context.Context, studentID int64) ([]*entity.StudentDebt, error) {
	debts, err := s.debtRepo.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to list debts", "error", err, "student_id", studentID)
		return nil, err
	}
	return debts, nil
}

// OutstandingTotal sums a student's unpaid debts
func (s *debtServiceImpl) OutstandingTotal(ctx context.Context, studentID int64) (float64, error) {
	total, err := s.debtRepo.OutstandingTotal(ctx, studentID)
	if err != nil {
		s.logger.Error("Failed to sum outstanding debts", "error", err, "student_id", studentID)
		return 0, err
	}
	return total, nil
}
