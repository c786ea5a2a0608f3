// Package speech defines the input/output contracts the dialogue controller
// speaks through, the recognition error taxonomy, and the voice style table.
package speech

import (
	"context"
	"fmt"
	"strings"
)

// Recognition error kinds. Network and generic errors carry a detail suffix
// on the wire ("network_error: dial tcp ...").
const (
	KindTimeout    = "timeout"
	KindUnknown    = "unknown"
	KindNetwork    = "network_error"
	KindMaxRetries = "max_retries"
	KindOther      = "error"
)

// ListenError reports a failed voice acquisition attempt.
type ListenError struct {
	Kind   string
	Detail string
}

func (e *ListenError) Error() string {
	if e.Detail == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Detail
}

// ParseListenError maps a wire error string back to a ListenError.
func ParseListenError(s string) *ListenError {
	kind, detail, found := strings.Cut(s, ":")
	kind = strings.TrimSpace(kind)
	switch kind {
	case KindTimeout, KindUnknown, KindNetwork, KindMaxRetries, KindOther:
	default:
		kind, detail, found = KindOther, s, true
	}
	if !found {
		return &ListenError{Kind: kind}
	}
	return &ListenError{Kind: kind, Detail: strings.TrimSpace(detail)}
}

// Listener acquires one utterance of voice input. Implementations own the
// recognition retry budget; the controller only sees the final outcome.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker emits one message to the user. Implementations serialize calls so
// concurrent timer callbacks never interleave partial writes.
type Speaker interface {
	Speak(text string)
}

// LineReader acquires one line of typed input. ok is false at end of input.
type LineReader interface {
	ReadLine() (text string, ok bool)
}

// VoiceControl adjusts how the Speaker sounds.
type VoiceControl interface {
	// SetStyle switches the voice style; false when the style is unrecognized.
	SetStyle(name string) bool
	// AdjustVolume applies "louder", "softer" or "mute" (a toggle).
	AdjustVolume(adjustment string)
	Muted() bool
}

// Style describes a recognized voice configuration.
type Style struct {
	Name   string
	Rate   int
	Volume float64
}

const (
	DefaultStyle      = "formal"
	defaultBaseVolume = 0.9
	volumeStep        = 0.2
	minVolume         = 0.2
	maxVolume         = 1.0
)

var styles = map[string]Style{
	"formal":  {Name: "formal", Rate: 150, Volume: 0.9},
	"casual":  {Name: "casual", Rate: 175, Volume: 0.9},
	"robotic": {Name: "robotic", Rate: 120, Volume: 1.0},
}

// StyleByName returns a recognized voice style.
func StyleByName(name string) (Style, bool) {
	s, ok := styles[name]
	return s, ok
}

// voiceState carries the mute/volume/style state shared by every speaker
// implementation.
type voiceState struct {
	style      Style
	baseVolume float64
	muted      bool
}

func newVoiceState(styleName string) voiceState {
	s, ok := styles[styleName]
	if !ok {
		s = styles[DefaultStyle]
	}
	return voiceState{style: s, baseVolume: defaultBaseVolume}
}

func (v *voiceState) setStyle(name string) bool {
	s, ok := styles[name]
	if !ok {
		return false
	}
	v.style = s
	return true
}

func (v *voiceState) adjustVolume(adjustment string) {
	switch adjustment {
	case "louder":
		v.baseVolume = min(maxVolume, v.baseVolume+volumeStep)
	case "softer":
		v.baseVolume = max(minVolume, v.baseVolume-volumeStep)
	case "mute":
		v.muted = !v.muted
	}
}

// effectiveVolume is the style volume scaled by the adjustable base volume.
func (v *voiceState) effectiveVolume() float64 {
	return v.style.Volume * v.baseVolume
}

func (v *voiceState) describe() string {
	return fmt.Sprintf("style=%s rate=%d volume=%.2f muted=%t", v.style.Name, v.style.Rate, v.effectiveVolume(), v.muted)
}
