package apps

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLauncher() (*Launcher, *[]string, *[]string) {
	l := NewLauncher(map[string]string{
		"editor":  "gedit",
		"browser": "xdg-open https://www.google.com",
		"youtube": "https://www.youtube.com",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var commands, urls []string
	l.run = func(name string, arg ...string) error {
		commands = append(commands, name)
		commands = append(commands, arg...)
		return nil
	}
	l.openURL = func(target string) error {
		urls = append(urls, target)
		return nil
	}
	return l, &commands, &urls
}

func TestOpenCommand(t *testing.T) {
	l, commands, _ := newTestLauncher()

	ok, msg := l.Open("Editor")
	assert.True(t, ok)
	assert.Equal(t, "Opening Editor", msg)
	assert.Equal(t, []string{"gedit"}, *commands)
}

func TestOpenCommandWithArgs(t *testing.T) {
	l, commands, _ := newTestLauncher()

	ok, _ := l.Open("browser")
	assert.True(t, ok)
	assert.Equal(t, []string{"xdg-open", "https://www.google.com"}, *commands)
}

func TestOpenURL(t *testing.T) {
	l, _, urls := newTestLauncher()

	ok, _ := l.Open("youtube")
	assert.True(t, ok)
	assert.Equal(t, []string{"https://www.youtube.com"}, *urls)
}

func TestOpenUnknownApp(t *testing.T) {
	l, commands, urls := newTestLauncher()

	ok, msg := l.Open("photoshop")
	assert.False(t, ok)
	assert.Equal(t, "I don't know how to open photoshop.", msg)
	assert.Empty(t, *commands)
	assert.Empty(t, *urls)
}

func TestOpenFailure(t *testing.T) {
	l, _, _ := newTestLauncher()
	l.run = func(string, ...string) error { return errors.New("exec: not found") }

	ok, msg := l.Open("editor")
	assert.False(t, ok)
	assert.Equal(t, "I couldn't open editor.", msg)
}

func TestSearch(t *testing.T) {
	l, _, urls := newTestLauncher()

	ok, msg := l.Search("go concurrency patterns")
	assert.True(t, ok)
	assert.Equal(t, "Searching the web for go concurrency patterns", msg)
	assert.Equal(t, []string{"https://www.google.com/search?q=go+concurrency+patterns"}, *urls)
}

func TestSearchEmptyQuery(t *testing.T) {
	l, _, urls := newTestLauncher()

	ok, msg := l.Search("  ")
	assert.False(t, ok)
	assert.Contains(t, msg, "what to search for")
	assert.Empty(t, *urls)
}
