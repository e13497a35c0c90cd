package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduler_Every はジョブが繰り返し実行され、Remove 後は実行されないことを検証します。
func TestScheduler_Every(t *testing.T) {
	t.Parallel()

	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	id, err := s.Every(time.Second, func() { n.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	assert.Eventually(t, func() bool { return n.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	s.Remove(id)
	assert.Equal(t, 0, s.Len())
}

func TestScheduler_Every_InvalidInterval(t *testing.T) {
	t.Parallel()

	s := New()
	_, err := s.Every(0, func() {})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

// TestScheduler_RecoversPanics はジョブの panic でスケジューラーが止まらないことを検証します。
func TestScheduler_RecoversPanics(t *testing.T) {
	t.Parallel()

	s := New()
	s.Start()
	defer s.Stop()

	var n atomic.Int32
	_, err := s.Every(time.Second, func() {
		n.Add(1)
		panic("boom")
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return n.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)
}
