package speech

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Engine is the console speech surface: spoken output is printed with a
// "Jarvis:" prefix and manual input is read line by line. It implements
// Speaker, LineReader and VoiceControl.
type Engine struct {
	mu      sync.Mutex
	out     io.Writer
	scanner *bufio.Scanner
	voice   voiceState
}

func NewEngine(in io.Reader, out io.Writer, styleName string) *Engine {
	return &Engine{
		out:     out,
		scanner: bufio.NewScanner(in),
		voice:   newVoiceState(styleName),
	}
}

// Speak prints the message unless muted. The mutex keeps concurrent timer
// callbacks from interleaving partial lines.
func (e *Engine) Speak(text string) {
	if text == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.voice.muted {
		return
	}
	fmt.Fprintf(e.out, "Jarvis: %s\n", text)
}

// ReadLine reads one trimmed, lowercased line of typed input. ok is false
// at end of input.
func (e *Engine) ReadLine() (string, bool) {
	e.mu.Lock()
	fmt.Fprint(e.out, "You: ")
	e.mu.Unlock()
	if !e.scanner.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(e.scanner.Text())), true
}

func (e *Engine) SetStyle(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice.setStyle(name)
}

func (e *Engine) AdjustVolume(adjustment string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voice.adjustVolume(adjustment)
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice.muted
}

// Voice describes the current voice settings.
func (e *Engine) Voice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice.describe()
}
