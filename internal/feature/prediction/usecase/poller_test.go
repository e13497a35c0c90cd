package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_dashboard/internal/feature/prediction/usecase"
	"crypto_dashboard/internal/shared/appstate"
)

// fakeScheduler はジョブを手動で発火できる Scheduler です。
type fakeScheduler struct {
	mu     sync.Mutex
	next   int
	jobs   map[int]func()
	period time.Duration
	err    error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: map[int]func(){}}
}

func (s *fakeScheduler) Every(d time.Duration, job func()) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.next++
	s.jobs[s.next] = job
	s.period = d
	return s.next, nil
}

func (s *fakeScheduler) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	jobs := make([]func(), 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	s.mu.Unlock()
	for _, j := range jobs {
		j()
	}
}

type countingRefresher struct{ n atomic.Int32 }

func (c *countingRefresher) Refresh(ctx context.Context) { c.n.Add(1) }

// TestPoller_Watch はページが表示中のときだけ更新されることを検証します。
func TestPoller_Watch(t *testing.T) {
	t.Parallel()

	sched := newFakeScheduler()
	st := appstate.New()
	target := &countingRefresher{}

	stop, err := usecase.NewPoller(sched, 0).Watch(context.Background(), st, target)
	require.NoError(t, err)
	assert.Equal(t, usecase.DefaultPollEvery, sched.period)

	sched.fireAll()
	assert.Equal(t, int32(1), target.n.Load())

	st.SetVisible(false)
	sched.fireAll()
	assert.Equal(t, int32(1), target.n.Load(), "hidden page must not refresh")

	st.SetVisible(true)
	sched.fireAll()
	assert.Equal(t, int32(2), target.n.Load())

	stop()
	sched.fireAll()
	assert.Equal(t, int32(2), target.n.Load(), "stopped watch must not refresh")
}

// TestPoller_Watch_ContextDone は終了したセッションのティックを無視することを検証します。
func TestPoller_Watch_ContextDone(t *testing.T) {
	t.Parallel()

	sched := newFakeScheduler()
	target := &countingRefresher{}
	ctx, cancel := context.WithCancel(context.Background())

	_, err := usecase.NewPoller(sched, 5*time.Second).Watch(ctx, appstate.New(), target)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, sched.period)

	cancel()
	sched.fireAll()
	assert.Equal(t, int32(0), target.n.Load())
}

func TestPoller_Watch_SchedulerError(t *testing.T) {
	t.Parallel()

	sched := newFakeScheduler()
	sched.err = errors.New("scheduler stopped")

	stop, err := usecase.NewPoller(sched, time.Minute).Watch(context.Background(), appstate.New(), &countingRefresher{})
	assert.Error(t, err)
	assert.Nil(t, stop)
}

type blockingRefresher struct {
	started chan struct{}
	release chan struct{}
	done    atomic.Bool
}

func (b *blockingRefresher) Refresh(ctx context.Context) {
	close(b.started)
	<-b.release
	b.done.Store(true)
}

// TestPoller_Watch_StopWaitsForTick は stop が実行中のティックの完了を待つことを検証します。
func TestPoller_Watch_StopWaitsForTick(t *testing.T) {
	t.Parallel()

	sched := newFakeScheduler()
	target := &blockingRefresher{started: make(chan struct{}), release: make(chan struct{})}

	stop, err := usecase.NewPoller(sched, time.Minute).Watch(context.Background(), appstate.New(), target)
	require.NoError(t, err)

	go sched.fireAll()
	<-target.started

	stopped := make(chan struct{})
	go func() {
		stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stop returned while a tick was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(target.release)
	<-stopped
	assert.True(t, target.done.Load())
}
