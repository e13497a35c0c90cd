// Package scheduler は全セッションで共有する cron スケジューラーです。
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron.Cron with fixed-interval jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a stopped Scheduler. Panicking jobs are recovered and logged.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

// Every は d ごとに job を実行するジョブを登録し、その ID を返します。
func (s *Scheduler) Every(d time.Duration, job func()) (int, error) {
	if d <= 0 {
		return 0, fmt.Errorf("scheduler: interval must be positive, got %s", d)
	}
	id := s.cron.Schedule(cron.Every(d), cron.FuncJob(job))
	return int(id), nil
}

// Remove unregisters a job. Unknown ids are ignored.
func (s *Scheduler) Remove(id int) {
	s.cron.Remove(cron.EntryID(id))
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}
