package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campus-systems/exeat-workflow/internal/application/port"
	"github.com/campus-systems/exeat-workflow/internal/domain/entity"
)

// OverduePoller scans for students who have departed but not signed back in
// by their expected return date and flags them in the audit trail.
type OverduePoller struct {
	exeatRepo port.ExeatRepository
	auditRepo port.AuditLogRepository
	logger    *zap.Logger

	// Configuration
	pollInterval time.Duration // How often to scan (default: 10 minutes)
	gracePeriod  time.Duration // Slack past the expected return before flagging
	batchSize    int           // How many requests to check per scan

	// State
	mu        sync.RWMutex
	isRunning bool
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewOverduePoller creates a new overdue poller
func NewOverduePoller(
	exeatRepo port.ExeatRepository,
	auditRepo port.AuditLogRepository,
	logger *zap.Logger,
) *OverduePoller {
	return &OverduePoller{
		exeatRepo:    exeatRepo,
		auditRepo:    auditRepo,
		logger:       logger,
		pollInterval: 10 * time.Minute,
		gracePeriod:  2 * time.Hour,
		batchSize:    100,
	}
}

// SetPollInterval overrides the scan interval. Must be called before Start.
func (p *OverduePoller) SetPollInterval(d time.Duration) {
	p.pollInterval = d
}

// Start starts the overdue scanning worker
func (p *OverduePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("overdue poller is already running")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.isRunning = true

	p.logger.Info("OverduePoller started",
		zap.Duration("poll_interval", p.pollInterval),
		zap.Duration("grace_period", p.gracePeriod),
		zap.Int("batch_size", p.batchSize))

	go p.pollLoop()

	return nil
}

// Stop stops the overdue scanning worker
func (p *OverduePoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isRunning {
		return
	}

	p.isRunning = false
	if p.cancel != nil {
		p.cancel()
	}

	p.logger.Info("OverduePoller stopped")
}

// Name returns the worker name for identification
func (p *OverduePoller) Name() string {
	return "OverduePoller"
}

// pollLoop runs the main scanning loop
func (p *OverduePoller) pollLoop() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Scan immediately on start
	p.scan()

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Scan loop context cancelled")
			return

		case <-ticker.C:
			p.scan()
		}
	}
}

// scan flags departed requests whose expected return has passed. Each
// request is flagged at most once.
func (p *OverduePoller) scan() {
	ctx, cancel := context.WithTimeout(p.ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-p.gracePeriod)
	requests, err := p.exeatRepo.ListDeparted(ctx, cutoff, p.batchSize)
	if err != nil {
		p.logger.Error("Failed to list departed requests", zap.Error(err))
		return
	}

	if len(requests) == 0 {
		return
	}

	flaggedCount := 0
	for _, req := range requests {
		flagged, err := p.alreadyFlagged(ctx, req.ID)
		if err != nil {
			p.logger.Warn("Failed to check audit trail",
				zap.Int64("request_id", req.ID),
				zap.Error(err))
			continue
		}
		if flagged {
			continue
		}

		log := &entity.AuditLog{
			ExeatRequestID: req.ID,
			Action:         entity.ActionOverdueFlagged,
			Details: fmt.Sprintf("Student %s (%s) overdue, expected back %s",
				req.StudentName, req.MatricNumber, req.ReturnDate.Format("2006-01-02")),
		}
		if err := p.auditRepo.Create(ctx, log); err != nil {
			p.logger.Error("Failed to flag overdue request",
				zap.Int64("request_id", req.ID),
				zap.Error(err))
			continue
		}

		p.logger.Info("Overdue return flagged",
			zap.Int64("request_id", req.ID),
			zap.String("reference", req.Reference),
			zap.Time("expected_return", req.ReturnDate))
		flaggedCount++
	}

	if flaggedCount > 0 {
		p.logger.Info("Overdue scan completed",
			zap.Int("checked", len(requests)),
			zap.Int("flagged", flaggedCount))
	}
}

// alreadyFlagged reports whether the request carries an overdue flag
func (p *OverduePoller) alreadyFlagged(ctx context.Context, requestID int64) (bool, error) {
	logs, err := p.auditRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return false, err
	}
	for _, log := range logs {
		if log.Action == entity.ActionOverdueFlagged {
			return true, nil
		}
	}
	return false, nil
}
