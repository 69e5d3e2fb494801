// Package scheduler runs the recurring jobs of the API process.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/makansehat/backend/internal/types"
)

const jobTimeout = 5 * time.Minute

// AutoAssigner assigns safe menus for a week. An empty start means next week.
type AutoAssigner interface {
	AutoAssignWeek(ctx context.Context, start string) (*types.AutoAssignResult, error)
}

type Scheduler struct {
	cron     *cron.Cron
	assigner AutoAssigner
	log      *zap.Logger
}

// New schedules the safe-menu assignment on a standard five-field cron expression.
func New(spec string, assigner AutoAssigner, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		assigner: assigner,
		log:      log,
	}
	if _, err := s.cron.AddFunc(spec, s.runAutoAssign); err != nil {
		return nil, fmt.Errorf("invalid auto-assign schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runAutoAssign() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.RunAutoAssign(ctx); err != nil {
		s.log.Error("Scheduled safe-menu assignment failed", zap.Error(err))
	}
}

// RunAutoAssign assigns next week's safe menus now.
func (s *Scheduler) RunAutoAssign(ctx context.Context) (*types.AutoAssignResult, error) {
	s.log.Info("Running safe-menu assignment")
	return s.assigner.AutoAssignWeek(ctx, "")
}

// Next returns the next time the assignment will run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started", zap.Time("next_auto_assign", s.Next()))
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
