package speech

import "sync"

// Voice is a standalone, concurrency-safe VoiceControl for speakers that
// render audio elsewhere, such as remote terminals.
type Voice struct {
	mu    sync.Mutex
	state voiceState
}

func NewVoice(styleName string) *Voice {
	return &Voice{state: newVoiceState(styleName)}
}

func (v *Voice) SetStyle(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.setStyle(name)
}

func (v *Voice) AdjustVolume(adjustment string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.adjustVolume(adjustment)
}

func (v *Voice) Muted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.muted
}

// Settings snapshots the values a remote terminal needs to render speech.
func (v *Voice) Settings() (style string, rate int, volume float64, muted bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.style.Name, v.state.style.Rate, v.state.effectiveVolume(), v.state.muted
}
