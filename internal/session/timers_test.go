package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleTimerFires(t *testing.T) {
	s := New(3)
	defer s.CancelAllTimers()

	fired := make(chan struct{})
	s.ScheduleTimer(5*time.Millisecond, func() { close(fired) })
	assert.Equal(t, 1, s.ActiveTimers())

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	require.Eventually(t, func() bool { return s.ActiveTimers() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTimerHandleStop(t *testing.T) {
	s := New(3)
	defer s.CancelAllTimers()

	fired := make(chan struct{})
	h := s.ScheduleTimer(time.Hour, func() { close(fired) })
	assert.True(t, h.Stop())
	assert.Equal(t, 0, s.ActiveTimers())
	assert.False(t, h.Stop())

	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestCancelAllTimers(t *testing.T) {
	s := New(3)
	for i := 0; i < 4; i++ {
		s.ScheduleTimer(time.Hour, func() {})
	}
	require.Equal(t, 4, s.ActiveTimers())
	s.CancelAllTimers()
	assert.Equal(t, 0, s.ActiveTimers())
}
