package domain

import "time"

// Mode selects how the controller acquires the next utterance.
type Mode string

const (
	ModeVoice  Mode = "voice"
	ModeManual Mode = "manual"
)

// ActionUnknown is the sentinel action produced when no intent matches.
const ActionUnknown = "unknown"

// Command is the structured result of resolving one utterance. Action is a
// catalog intent name or ActionUnknown. Params holds extracted parameters;
// a parameter an intent defines but could not extract is present with a nil
// value, never missing.
type Command struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Clone copies the command so history entries and confirmation slots never
// alias the caller's params map.
func (c Command) Clone() Command {
	out := Command{Action: c.Action}
	if c.Params != nil {
		out.Params = make(map[string]any, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return out
}

// StringParam returns the named parameter when it is a non-empty string.
func (c Command) StringParam(key string) (string, bool) {
	v, ok := c.Params[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// IntParam returns the named parameter when it is an int.
func (c Command) IntParam(key string) (int, bool) {
	v, ok := c.Params[key]
	if !ok || v == nil {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}

type HistoryEntry struct {
	Command   Command   `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}

// PendingConfirmation holds a sensitive command awaiting explicit approval.
// At most one is outstanding at a time.
type PendingConfirmation struct {
	Action  string         `json:"action"`
	Params  map[string]any `json:"params"`
	Message string         `json:"message"`
}

// Reply is the outcome a handler reports back to the dialogue controller.
// Failures are data, not errors: Message is spoken either way.
type Reply struct {
	OK      bool
	Message string
}

// MQTT payloads

// ListenRequest asks a voice terminal to capture one utterance.
type ListenRequest struct {
	RequestID      string `json:"request_id"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Transcript is the terminal's answer to a ListenRequest. When OK is false,
// Error carries one of the recognition error kinds (timeout, unknown,
// network_error:<detail>, max_retries, error:<detail>).
type Transcript struct {
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SpeakMessage carries text-to-speech output to a voice terminal together
// with the voice settings the terminal should apply.
type SpeakMessage struct {
	Text   string  `json:"text"`
	Style  string  `json:"style,omitempty"`
	Rate   int     `json:"rate,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	Muted  bool    `json:"muted,omitempty"`
}
