// Package report builds downloadable registers from exeat records.
package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

const registerSheet = "Exeat Register"

// RegisterExporter renders exeat requests into an Excel register for the
// student affairs office.
type RegisterExporter struct {
	exeatRepo port.ExeatRepository
	logger    *zap.Logger
}

// NewRegisterExporter creates a new RegisterExporter
func NewRegisterExporter(exeatRepo port.ExeatRepository, logger *zap.Logger) *RegisterExporter {
	return &RegisterExporter{
		exeatRepo: exeatRepo,
		logger:    logger,
	}
}

// ExeatRegister builds a workbook of requests matching the filter and returns
// the serialized file.
func (e *RegisterExporter) ExeatRegister(ctx context.Context, filter port.ExeatFilter) (*bytes.Buffer, error) {
	requests, err := e.exeatRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	headers := []string{
		"Reference", "Matric Number", "Student Name", "Medical",
		"Destination", "Reason", "Departure", "Expected Return",
		"Actual Return", "Status",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		e.setCell(f, cell, header)
	}

	for row, req := range requests {
		e.writeRow(f, row+2, req)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	e.logger.Info("Exeat register exported",
		zap.Int("rows", len(requests)),
		zap.String("status_filter", filter.Status))

	return buf, nil
}

func (e *RegisterExporter) writeRow(f *excelize.File, row int, req *entity.ExeatRequest) {
	medical := "No"
	if req.IsMedical {
		medical = "Yes"
	}

	actualReturn := ""
	if req.ActualReturn != nil {
		actualReturn = req.ActualReturn.Format("2006-01-02 15:04")
	}

	values := []string{
		req.Reference,
		req.MatricNumber,
		req.StudentName,
		medical,
		req.Destination,
		req.Reason,
		req.DepartureDate.Format("2006-01-02"),
		req.ReturnDate.Format("2006-01-02"),
		actualReturn,
		req.Status,
	}
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		e.setCell(f, cell, value)
	}
}

// setCell sets a cell value on the register sheet
func (e *RegisterExporter) setCell(f *excelize.File, cell, value string) {
	if err := f.SetCellValue(registerSheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// FileName returns the suggested download name for a register exported now
func FileName(now time.Time) string {
	return fmt.Sprintf("exeat-register-%s.xlsx", now.Format("2006-01-02"))
}
