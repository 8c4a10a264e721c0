package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

type stubExeatRepo struct {
	requests []*entity.ExeatRequest
}

func (s *stubExeatRepo) Create(ctx context.Context, req *entity.ExeatRequest) error { return nil }

func (s *stubExeatRepo) GetByID(ctx context.Context, id int64) (*entity.ExeatRequest, error) {
	return nil, nil
}

func (s *stubExeatRepo) GetByReference(ctx context.Context, reference string) (*entity.ExeatRequest, error) {
	return nil, nil
}

func (s *stubExeatRepo) UpdateStatus(ctx context.Context, id int64, status string) error { return nil }

func (s *stubExeatRepo) SetActualReturn(ctx context.Context, id int64, t time.Time) error {
	return nil
}

func (s *stubExeatRepo) List(ctx context.Context, filter port.ExeatFilter) ([]*entity.ExeatRequest, error) {
	return s.requests, nil
}

func (s *stubExeatRepo) ListDeparted(ctx context.Context, before time.Time, limit int) ([]*entity.ExeatRequest, error) {
	return nil, nil
}

func (s *stubExeatRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

func TestExeatRegister_WritesHeaderAndRows(t *testing.T) {
	returned := time.Date(2026, 3, 9, 17, 30, 0, 0, time.UTC)
	repo := &stubExeatRepo{
		requests: []*entity.ExeatRequest{
			{
				Reference:     "ref-001",
				MatricNumber:  "VUG/21/4102",
				StudentName:   "Ada Obi",
				IsMedical:     true,
				Destination:   "Lagos",
				Reason:        "Clinic referral",
				DepartureDate: time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
				ReturnDate:    time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
				ActualReturn:  &returned,
				Status:        entity.StatusCompleted,
			},
			{
				Reference:     "ref-002",
				MatricNumber:  "VUG/22/0017",
				StudentName:   "Bola Ade",
				Destination:   "Abuja",
				Reason:        "Family event",
				DepartureDate: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC),
				ReturnDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Status:        entity.StatusSecuritySignin,
			},
		},
	}

	exporter := NewRegisterExporter(repo, zap.NewNop())

	buf, err := exporter.ExeatRegister(context.Background(), port.ExeatFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(registerSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Reference", header)

	ref, _ := f.GetCellValue(registerSheet, "A2")
	assert.Equal(t, "ref-001", ref)

	medical, _ := f.GetCellValue(registerSheet, "D2")
	assert.Equal(t, "Yes", medical)

	actual, _ := f.GetCellValue(registerSheet, "I2")
	assert.Equal(t, "2026-03-09 17:30", actual)

	// The second request has not returned yet.
	actual2, _ := f.GetCellValue(registerSheet, "I3")
	assert.Empty(t, actual2)

	status2, _ := f.GetCellValue(registerSheet, "J3")
	assert.Equal(t, entity.StatusSecuritySignin, status2)
}

func TestFileName_Dated(t *testing.T) {
	name := FileName(time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "exeat-register-2026-03-09.xlsx", name)
}
