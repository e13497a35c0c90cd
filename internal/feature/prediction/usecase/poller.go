package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollEvery is the refresh period of the prediction view.
const DefaultPollEvery = 60 * time.Second

// Scheduler registers periodic jobs. Implemented by platform/scheduler.
type Scheduler interface {
	Every(d time.Duration, job func()) (int, error)
	Remove(id int)
}

// Refresher is refreshed on every visible tick.
type Refresher interface {
	Refresh(ctx context.Context)
}

// VisibilitySource reports whether the page is in the foreground.
type VisibilitySource interface {
	Visible() bool
}

// Poller は共有スケジューラ上でセッションごとの定期更新を登録します。
// ページが非表示の間のティックは何もしません。
type Poller struct {
	sched Scheduler
	every time.Duration
}

// NewPoller creates a Poller. A non-positive period uses DefaultPollEvery.
func NewPoller(sched Scheduler, every time.Duration) *Poller {
	if every <= 0 {
		every = DefaultPollEvery
	}
	return &Poller{sched: sched, every: every}
}

// Watch registers target and returns a function that unregisters it.
// stop waits for a tick that is already running; ticks after stop or after ctx is done are ignored.
func (p *Poller) Watch(ctx context.Context, vis VisibilitySource, target Refresher) (stop func(), err error) {
	var (
		mu      sync.Mutex
		stopped bool
		running sync.WaitGroup
	)
	id, err := p.sched.Every(p.every, func() {
		mu.Lock()
		if stopped || ctx.Err() != nil {
			mu.Unlock()
			return
		}
		running.Add(1)
		mu.Unlock()
		defer running.Done()

		if !vis.Visible() {
			slog.Debug("skipping refresh while page is hidden")
			return
		}
		target.Refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return func() {
		p.sched.Remove(id)
		mu.Lock()
		stopped = true
		mu.Unlock()
		running.Wait()
	}, nil
}
