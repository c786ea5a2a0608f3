// Package session owns the conversational state the dialogue controller
// consults between utterances: a bounded command history, the single pending
// confirmation slot, and the registry of scheduled timers. Nothing here
// survives a restart.
package session

import (
	"strings"
	"sync"
	"time"

	"jarvis/internal/domain"
)

// DefaultMemorySize is how many commands the history ring retains.
const DefaultMemorySize = 3

// sensitiveActions require explicit confirmation before execution.
var sensitiveActions = map[string]struct{}{
	"open_app": {},
	"alarm":    {},
	"reminder": {},
}

type State struct {
	mu       sync.Mutex
	capacity int
	history  []domain.HistoryEntry
	pending  *domain.PendingConfirmation

	timerMu sync.Mutex
	nextID  uint64
	timers  map[uint64]*TimerHandle

	now func() time.Time
}

func New(capacity int) *State {
	if capacity <= 0 {
		capacity = DefaultMemorySize
	}
	return &State{
		capacity: capacity,
		timers:   make(map[uint64]*TimerHandle),
		now:      time.Now,
	}
}

// AddToHistory appends a command, evicting the oldest entry when the ring
// is full.
func (s *State) AddToHistory(cmd domain.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, domain.HistoryEntry{Command: cmd.Clone(), Timestamp: s.now()})
	if len(s.history) > s.capacity {
		s.history = s.history[len(s.history)-s.capacity:]
	}
}

// LastCommand returns the most recent command.
func (s *State) LastCommand() (domain.Command, bool) {
	return s.PreviousCommand(1)
}

// PreviousCommand returns the command offset entries back: 1 is the most
// recent, 2 the one before it.
func (s *State) PreviousCommand(offset int) (domain.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset <= 0 || len(s.history) < offset {
		return domain.Command{}, false
	}
	return s.history[len(s.history)-offset].Command.Clone(), true
}

// History returns a copy of the ring, oldest first.
func (s *State) History() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.HistoryEntry, len(s.history))
	for i, e := range s.history {
		out[i] = domain.HistoryEntry{Command: e.Command.Clone(), Timestamp: e.Timestamp}
	}
	return out
}

// SetPendingConfirmation stores a held command awaiting approval, replacing
// any previous one.
func (s *State) SetPendingConfirmation(action string, params map[string]any, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	held := domain.Command{Action: action, Params: params}.Clone()
	s.pending = &domain.PendingConfirmation{Action: held.Action, Params: held.Params, Message: message}
}

func (s *State) PendingConfirmation() (domain.PendingConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return domain.PendingConfirmation{}, false
	}
	return *s.pending, true
}

func (s *State) ClearPendingConfirmation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// ConfirmAction atomically consumes the pending slot and returns the held
// command.
func (s *State) ConfirmAction() (domain.Command, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return domain.Command{}, false
	}
	cmd := domain.Command{Action: s.pending.Action, Params: s.pending.Params}
	s.pending = nil
	return cmd, true
}

// NeedsConfirmation reports whether action is in the sensitive set.
func NeedsConfirmation(action string) bool {
	_, ok := sensitiveActions[action]
	return ok
}

// SecondsFor converts a value and spoken unit to seconds. Units match by
// prefix ("minute" covers "minutes"); anything unrecognized passes the value
// through unchanged.
func SecondsFor(value int, unit string) int {
	switch u := strings.ToLower(unit); {
	case strings.HasPrefix(u, "second"):
		return value
	case strings.HasPrefix(u, "minute"):
		return value * 60
	case strings.HasPrefix(u, "hour"):
		return value * 3600
	default:
		return value
	}
}
