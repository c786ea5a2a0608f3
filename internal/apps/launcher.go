// Package apps launches desktop applications from an allowlist and opens
// web searches in the default browser.
package apps

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultApps maps the names users say to the command to execute or the URL
// to open. URL entries go through the browser, the rest through exec.
var DefaultApps = map[string]string{
	"chrome":     "google-chrome",
	"firefox":    "firefox",
	"browser":    "xdg-open https://www.google.com",
	"terminal":   "x-terminal-emulator",
	"calculator": "gnome-calculator",
	"files":      "nautilus",
	"editor":     "gedit",
	"notepad":    "gedit",
	"spotify":    "spotify",
	"youtube":    "https://www.youtube.com",
	"gmail":      "https://mail.google.com",
	"maps":       "https://maps.google.com",
}

type Launcher struct {
	apps    map[string]string
	run     func(name string, arg ...string) error
	openURL func(target string) error
	logger  *slog.Logger
}

func NewLauncher(apps map[string]string, logger *slog.Logger) *Launcher {
	if apps == nil {
		apps = DefaultApps
	}
	l := &Launcher{
		apps:   apps,
		logger: logger,
	}
	l.run = func(name string, arg ...string) error {
		return exec.Command(name, arg...).Start()
	}
	l.openURL = func(target string) error {
		switch runtime.GOOS {
		case "darwin":
			return exec.Command("open", target).Start()
		case "windows":
			return exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
		default:
			return exec.Command("xdg-open", target).Start()
		}
	}
	return l
}

// Open launches the named application when it is on the allowlist.
func (l *Launcher) Open(app string) (bool, string) {
	key := strings.ToLower(strings.TrimSpace(app))
	target, ok := l.apps[key]
	if !ok {
		return false, fmt.Sprintf("I don't know how to open %s.", app)
	}

	var err error
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		err = l.openURL(target)
	} else {
		parts := strings.Fields(target)
		err = l.run(parts[0], parts[1:]...)
	}
	if err != nil {
		l.logger.Warn("app launch failed", "app", key, "target", target, "error", err)
		return false, fmt.Sprintf("I couldn't open %s.", app)
	}
	return true, fmt.Sprintf("Opening %s", app)
}

// Search opens a web search for the query in the default browser.
func (l *Launcher) Search(query string) (bool, string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return false, "Tell me what to search for."
	}
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := l.openURL(target); err != nil {
		l.logger.Warn("web search failed", "query", query, "error", err)
		return false, "I couldn't open the browser to search."
	}
	return true, fmt.Sprintf("Searching the web for %s", query)
}
