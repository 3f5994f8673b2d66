// Package scheduler runs the periodic posture snapshot sweep.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/halcyonlabs/argus/internal/logger"
	"github.com/halcyonlabs/argus/internal/services"
)

type Scheduler struct {
	cron      *cron.Cron
	snapshots *services.SnapshotService
}

func New(snapshots *services.SnapshotService) *Scheduler {
	return &Scheduler{cron: cron.New(), snapshots: snapshots}
}

// Start registers the snapshot job on the given cron schedule and starts the
// scheduler. The returned error only covers spec parsing.
func (s *Scheduler) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		logger.Log().Info("taking posture snapshots")
		s.snapshots.TakeAll(time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.WithFields(map[string]interface{}{"schedule": schedule}).Info("snapshot scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
