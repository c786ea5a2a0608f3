package speech

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListenError(t *testing.T) {
	cases := []struct {
		in         string
		wantKind   string
		wantDetail string
	}{
		{"timeout", KindTimeout, ""},
		{"unknown", KindUnknown, ""},
		{"max_retries", KindMaxRetries, ""},
		{"network_error: dial tcp refused", KindNetwork, "dial tcp refused"},
		{"error: microphone busy", KindOther, "microphone busy"},
		{"something odd", KindOther, "something odd"},
	}
	for _, tc := range cases {
		got := ParseListenError(tc.in)
		assert.Equal(t, tc.wantKind, got.Kind, "input %q", tc.in)
		assert.Equal(t, tc.wantDetail, got.Detail, "input %q", tc.in)
	}
}

func TestEngineSpeakRespectsMute(t *testing.T) {
	var out strings.Builder
	e := NewEngine(strings.NewReader(""), &out, DefaultStyle)

	e.Speak("hello")
	require.Equal(t, "Jarvis: hello\n", out.String())

	e.AdjustVolume("mute")
	e.Speak("silenced")
	assert.Equal(t, "Jarvis: hello\n", out.String())

	e.AdjustVolume("mute")
	e.Speak("back")
	assert.Contains(t, out.String(), "Jarvis: back\n")
}

func TestEngineReadLine(t *testing.T) {
	var out strings.Builder
	e := NewEngine(strings.NewReader("  Open Browser  \n"), &out, DefaultStyle)

	line, ok := e.ReadLine()
	require.True(t, ok)
	assert.Equal(t, "open browser", line)

	_, ok = e.ReadLine()
	assert.False(t, ok)
}

func TestVoiceStateAdjustments(t *testing.T) {
	v := newVoiceState("robotic")
	assert.InDelta(t, 0.9, v.baseVolume, 1e-9)
	assert.InDelta(t, 0.9, v.effectiveVolume(), 1e-9)

	v.adjustVolume("louder")
	assert.InDelta(t, 1.0, v.baseVolume, 1e-9)
	v.adjustVolume("louder")
	assert.InDelta(t, 1.0, v.baseVolume, 1e-9)

	for i := 0; i < 10; i++ {
		v.adjustVolume("softer")
	}
	assert.InDelta(t, 0.2, v.baseVolume, 1e-9)

	assert.False(t, v.muted)
	v.adjustVolume("mute")
	assert.True(t, v.muted)
}

func TestStyleByName(t *testing.T) {
	s, ok := StyleByName("casual")
	require.True(t, ok)
	assert.Equal(t, 175, s.Rate)

	_, ok = StyleByName("operatic")
	assert.False(t, ok)

	v := newVoiceState("operatic")
	assert.Equal(t, DefaultStyle, v.style.Name)
}
