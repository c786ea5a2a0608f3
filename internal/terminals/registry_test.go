package terminals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPresence(t *testing.T) {
	r := NewRegistry(time.Minute)

	r.SetCapabilities("desk-01", []string{"listen", "speak"})
	state, ok := r.Get("desk-01")
	require.True(t, ok)
	assert.True(t, state.Online)
	assert.True(t, state.CanListen())

	r.SetOnline("desk-01", false)
	state, ok = r.Get("desk-01")
	require.True(t, ok)
	assert.False(t, state.Online)
	assert.Empty(t, r.ListOnline())
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(10 * time.Millisecond)

	r.Touch("desk-01")
	_, ok := r.Get("desk-01")
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = r.Get("desk-01")
	assert.False(t, ok)
	assert.Empty(t, r.ListOnline())
}

func TestFirstListener(t *testing.T) {
	r := NewRegistry(time.Minute)

	r.SetCapabilities("speaker-01", []string{"speak"})
	_, ok := r.FirstListener()
	assert.False(t, ok)

	r.SetCapabilities("desk-01", []string{"listen", "speak"})
	state, ok := r.FirstListener()
	require.True(t, ok)
	assert.Equal(t, "desk-01", state.TerminalID)
}

func TestGetCopiesCapabilities(t *testing.T) {
	r := NewRegistry(time.Minute)
	r.SetCapabilities("desk-01", []string{"listen"})

	state, _ := r.Get("desk-01")
	state.Capabilities[0] = "mutated"

	fresh, _ := r.Get("desk-01")
	assert.Equal(t, []string{"listen"}, fresh.Capabilities)
}
