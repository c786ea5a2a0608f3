package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/internal/domain"
)

func TestHistoryEvictsOldestFirst(t *testing.T) {
	s := New(DefaultMemorySize)
	for i := 0; i < DefaultMemorySize+2; i++ {
		s.AddToHistory(domain.Command{Action: fmt.Sprintf("cmd-%d", i)})
	}

	entries := s.History()
	require.Len(t, entries, DefaultMemorySize)
	assert.Equal(t, "cmd-2", entries[0].Command.Action)
	assert.Equal(t, "cmd-4", entries[len(entries)-1].Command.Action)
}

func TestPreviousCommandOffsets(t *testing.T) {
	s := New(3)
	_, ok := s.LastCommand()
	assert.False(t, ok)

	s.AddToHistory(domain.Command{Action: "first"})
	s.AddToHistory(domain.Command{Action: "second"})

	last, ok := s.LastCommand()
	require.True(t, ok)
	assert.Equal(t, "second", last.Action)

	prev, ok := s.PreviousCommand(2)
	require.True(t, ok)
	assert.Equal(t, "first", prev.Action)

	_, ok = s.PreviousCommand(3)
	assert.False(t, ok)
	_, ok = s.PreviousCommand(0)
	assert.False(t, ok)
}

func TestHistoryDoesNotAliasCallerParams(t *testing.T) {
	s := New(3)
	params := map[string]any{"app": "browser"}
	s.AddToHistory(domain.Command{Action: "open_app", Params: params})
	params["app"] = "mutated"

	last, ok := s.LastCommand()
	require.True(t, ok)
	assert.Equal(t, "browser", last.Params["app"])
}

func TestConfirmActionConsumesPending(t *testing.T) {
	s := New(3)
	_, ok := s.ConfirmAction()
	assert.False(t, ok)

	s.SetPendingConfirmation("open_app", map[string]any{"app": "browser"}, "Say yes or no.")
	pending, ok := s.PendingConfirmation()
	require.True(t, ok)
	assert.Equal(t, "Say yes or no.", pending.Message)

	cmd, ok := s.ConfirmAction()
	require.True(t, ok)
	assert.Equal(t, "open_app", cmd.Action)
	assert.Equal(t, "browser", cmd.Params["app"])

	_, ok = s.PendingConfirmation()
	assert.False(t, ok)
	_, ok = s.ConfirmAction()
	assert.False(t, ok)
}

func TestClearPendingConfirmation(t *testing.T) {
	s := New(3)
	s.SetPendingConfirmation("reminder", nil, "confirm?")
	s.ClearPendingConfirmation()
	_, ok := s.PendingConfirmation()
	assert.False(t, ok)
}

func TestNeedsConfirmation(t *testing.T) {
	assert.True(t, NeedsConfirmation("open_app"))
	assert.True(t, NeedsConfirmation("alarm"))
	assert.True(t, NeedsConfirmation("reminder"))
	assert.False(t, NeedsConfirmation("time"))
	assert.False(t, NeedsConfirmation("unknown"))
}

func TestSecondsFor(t *testing.T) {
	assert.Equal(t, 30, SecondsFor(30, "seconds"))
	assert.Equal(t, 120, SecondsFor(2, "minutes"))
	assert.Equal(t, 18000, SecondsFor(5, "hour"))
	assert.Equal(t, 7, SecondsFor(7, "fortnights"))
}
