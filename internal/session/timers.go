package session

import "time"

// TimerHandle is a cancellable one-shot callback scheduled on the session.
// Fired and stopped handles deregister themselves.
type TimerHandle struct {
	id    uint64
	timer *time.Timer
	state *State
}

// Stop cancels the timer. It reports false when the callback already ran or
// the handle was stopped before.
func (h *TimerHandle) Stop() bool {
	if h == nil || h.timer == nil {
		return false
	}
	stopped := h.timer.Stop()
	h.state.removeTimer(h.id)
	return stopped
}

// ScheduleTimer runs callback once after d. The callback runs on its own
// goroutine; callers must tolerate it interleaving with other output.
func (s *State) ScheduleTimer(d time.Duration, callback func()) *TimerHandle {
	s.timerMu.Lock()
	s.nextID++
	id := s.nextID
	h := &TimerHandle{id: id, state: s}
	h.timer = time.AfterFunc(d, func() {
		s.removeTimer(id)
		callback()
	})
	s.timers[id] = h
	s.timerMu.Unlock()
	return h
}

// ActiveTimers reports how many scheduled callbacks have not yet fired or
// been cancelled.
func (s *State) ActiveTimers() int {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	return len(s.timers)
}

// CancelAllTimers stops every outstanding timer. Tests use this so timers
// never leak across runs.
func (s *State) CancelAllTimers() {
	s.timerMu.Lock()
	handles := make([]*TimerHandle, 0, len(s.timers))
	for _, h := range s.timers {
		handles = append(handles, h)
	}
	s.timerMu.Unlock()
	for _, h := range handles {
		h.Stop()
	}
}

func (s *State) removeTimer(id uint64) {
	s.timerMu.Lock()
	delete(s.timers, id)
	s.timerMu.Unlock()
}
