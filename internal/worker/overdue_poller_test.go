package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

type stubExeatRepo struct {
	departed []*entity.ExeatRequest
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
	return nil, nil
}

func (s *stubExeatRepo) ListDeparted(ctx context.Context, before time.Time, limit int) ([]*entity.ExeatRequest, error) {
	return s.departed, nil
}

func (s *stubExeatRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}

type stubAuditRepo struct {
	logs []*entity.AuditLog
}

func (s *stubAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func (s *stubAuditRepo) GetByRequestID(ctx context.Context, requestID int64) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, log := range s.logs {
		if log.ExeatRequestID == requestID {
			out = append(out, log)
		}
	}
	return out, nil
}

func TestOverdueScan_FlagsOnce(t *testing.T) {
	exeats := &stubExeatRepo{
		departed: []*entity.ExeatRequest{
			{
				ID:           1,
				Reference:    "ref-001",
				StudentName:  "Ada Obi",
				MatricNumber: "VUG/21/4102",
				Status:       entity.StatusSecuritySignin,
				ReturnDate:   time.Now().Add(-48 * time.Hour),
			},
		},
	}
	audits := &stubAuditRepo{}

	p := NewOverduePoller(exeats, audits, zap.NewNop())
	p.ctx = context.Background()

	p.scan()
	require.Len(t, audits.logs, 1)
	assert.Equal(t, entity.ActionOverdueFlagged, audits.logs[0].Action)
	assert.Equal(t, int64(1), audits.logs[0].ExeatRequestID)
	assert.Contains(t, audits.logs[0].Details, "Ada Obi")

	// A second scan must not duplicate the flag.
	p.scan()
	assert.Len(t, audits.logs, 1)
}

func TestOverduePoller_StartStop(t *testing.T) {
	p := NewOverduePoller(&stubExeatRepo{}, &stubAuditRepo{}, zap.NewNop())
	p.SetPollInterval(time.Hour)

	require.NoError(t, p.Start(context.Background()))
	assert.Error(t, p.Start(context.Background()), "double start is refused")

	p.Stop()
	p.Stop() // idempotent

	assert.Equal(t, "OverduePoller", p.Name())
}

func TestManager_StartsAndStopsRegisteredWorkers(t *testing.T) {
	m := NewManager(zap.NewNop())

	p := NewOverduePoller(&stubExeatRepo{}, &stubAuditRepo{}, zap.NewNop())
	p.SetPollInterval(time.Hour)
	m.Register(p)

	require.Equal(t, 1, m.Count())
	require.NoError(t, m.StartAll(context.Background()))
	m.StopAll()
}
