// Package history keeps an append-only log of every accepted command on
// disk, one line per command.
package history

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jarvis/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger appends commands to a plain text file as
// "[2025-03-12 15:04:05] [VOICE] open chrome".
type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

func (l *Logger) LogCommand(_ context.Context, text string, mode domain.Mode) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create command log dir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open command log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] [%s] %s\n",
		l.now().Format(timeLayout),
		strings.ToUpper(string(mode)),
		text,
	)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append command log: %w", err)
	}
	return nil
}

// Recent returns the last n log lines, oldest first. A missing file is an
// empty history, not an error.
func (l *Logger) Recent(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open command log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read command log: %w", err)
	}

	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
