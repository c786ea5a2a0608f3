// Package terminals tracks the voice terminals connected over MQTT: their
// presence, capabilities, and freshness.
package terminals

import (
	"strings"
	"sync"
	"time"
)

type TerminalState struct {
	TerminalID   string    `json:"terminal_id"`
	Capabilities []string  `json:"capabilities"`
	Online       bool      `json:"online"`
	LastSeen     time.Time `json:"last_seen"`
}

// CanListen reports whether the terminal accepts listen requests.
func (s TerminalState) CanListen() bool {
	for _, c := range s.Capabilities {
		if c == "listen" {
			return true
		}
	}
	return false
}

type Registry struct {
	mu   sync.RWMutex
	data map[string]TerminalState
	ttl  time.Duration
}

// NewRegistry builds a registry whose entries expire when a terminal stops
// heartbeating for ttl.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Registry{
		data: make(map[string]TerminalState),
		ttl:  ttl,
	}
}

func (r *Registry) SetCapabilities(terminalID string, capabilities []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.data[terminalID]
	state.TerminalID = terminalID
	state.Capabilities = append([]string{}, capabilities...)
	state.Online = true
	state.LastSeen = time.Now()
	r.data[terminalID] = state
}

func (r *Registry) SetOnline(terminalID string, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.data[terminalID]
	state.TerminalID = terminalID
	state.Online = online
	state.LastSeen = time.Now()
	r.data[terminalID] = state
}

// Touch refreshes the freshness window on a heartbeat.
func (r *Registry) Touch(terminalID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.data[terminalID]
	state.TerminalID = terminalID
	state.Online = true
	state.LastSeen = time.Now()
	r.data[terminalID] = state
}

func (r *Registry) Get(terminalID string) (TerminalState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.data[terminalID]
	if !ok || r.isExpired(state) {
		return TerminalState{}, false
	}
	out := state
	out.Capabilities = append([]string{}, state.Capabilities...)
	return out, true
}

func (r *Registry) ListOnline() []TerminalState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TerminalState, 0, len(r.data))
	for _, state := range r.data {
		if strings.TrimSpace(state.TerminalID) == "" {
			continue
		}
		if !state.Online || r.isExpired(state) {
			continue
		}
		item := state
		item.Capabilities = append([]string{}, state.Capabilities...)
		out = append(out, item)
	}
	return out
}

// FirstListener picks an online terminal that can capture audio.
func (r *Registry) FirstListener() (TerminalState, bool) {
	for _, state := range r.ListOnline() {
		if state.CanListen() {
			return state, true
		}
	}
	return TerminalState{}, false
}

func (r *Registry) isExpired(state TerminalState) bool {
	if r.ttl <= 0 {
		return false
	}
	return time.Since(state.LastSeen) > r.ttl
}
