package dialogue

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/internal/domain"
	"jarvis/internal/intent"
	"jarvis/internal/session"
	"jarvis/internal/speech"
)

type recordingSpeaker struct {
	lines []string
}

func (s *recordingSpeaker) Speak(text string) {
	s.lines = append(s.lines, text)
}

type scriptedReader struct {
	lines []string
	pos   int
}

func (r *scriptedReader) ReadLine() (string, bool) {
	if r.pos >= len(r.lines) {
		return "", false
	}
	line := r.lines[r.pos]
	r.pos++
	return line, true
}

type scriptedListener struct {
	texts []string
	errs  []error
	pos   int
}

func (l *scriptedListener) Listen(context.Context) (string, error) {
	if l.pos >= len(l.texts) {
		return "", &speech.ListenError{Kind: speech.KindTimeout}
	}
	text, err := l.texts[l.pos], l.errs[l.pos]
	l.pos++
	return text, err
}

type countingLauncher struct {
	opened []string
}

func (l *countingLauncher) Open(app string) (bool, string) {
	l.opened = append(l.opened, app)
	return true, "Opening " + app
}

func newTestController(t *testing.T, deps Deps) *Controller {
	t.Helper()
	if deps.Speaker == nil {
		deps.Speaker = &recordingSpeaker{}
	}
	cfg := Config{
		Mode: domain.ModeManual,
		Now: func() time.Time {
			return time.Date(2025, time.March, 12, 15, 4, 0, 0, time.UTC)
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, intent.NewResolver(intent.Default()), session.New(session.DefaultMemorySize), deps, logger)
}

func TestHandleTextTime(t *testing.T) {
	c := newTestController(t, Deps{})

	res := c.HandleText(context.Background(), "what time is it")
	assert.Equal(t, intent.ActionTime, res.Command.Action)
	assert.Equal(t, "It's 03:04 PM", res.Reply)
}

func TestHandleTextUnknown(t *testing.T) {
	c := newTestController(t, Deps{})

	res := c.HandleText(context.Background(), "make me a sandwich quickly")
	assert.Equal(t, domain.ActionUnknown, res.Command.Action)
	assert.Contains(t, res.Reply, "didn't understand")
}

func TestConfirmationExecutesExactlyOnce(t *testing.T) {
	launcher := &countingLauncher{}
	c := newTestController(t, Deps{Collab: Collaborators{Apps: launcher}})
	ctx := context.Background()

	res := c.HandleText(ctx, "open chrome")
	require.True(t, res.AwaitingConfirmation)
	assert.Contains(t, res.Reply, "open chrome")
	assert.Empty(t, launcher.opened, "no launch before confirmation")

	res = c.HandleText(ctx, "yes")
	assert.False(t, res.AwaitingConfirmation)
	assert.Contains(t, res.Reply, "Confirmed.")
	assert.Equal(t, []string{"chrome"}, launcher.opened)

	_, pending := c.Session().PendingConfirmation()
	assert.False(t, pending, "confirmation consumed")
}

func TestConfirmationCancelled(t *testing.T) {
	launcher := &countingLauncher{}
	c := newTestController(t, Deps{Collab: Collaborators{Apps: launcher}})
	ctx := context.Background()

	res := c.HandleText(ctx, "open spotify")
	require.True(t, res.AwaitingConfirmation)

	res = c.HandleText(ctx, "no")
	assert.Equal(t, "Cancelled", res.Reply)
	assert.Empty(t, launcher.opened)

	_, pending := c.Session().PendingConfirmation()
	assert.False(t, pending)
}

func TestConfirmationAcceptsVariants(t *testing.T) {
	for _, answer := range []string{"yes", "yeah", "sure", "yes please"} {
		t.Run(answer, func(t *testing.T) {
			launcher := &countingLauncher{}
			c := newTestController(t, Deps{Collab: Collaborators{Apps: launcher}})
			ctx := context.Background()

			c.HandleText(ctx, "open terminal")
			c.HandleText(ctx, answer)
			assert.Equal(t, []string{"terminal"}, launcher.opened)
		})
	}
}

func TestRepeatReplaysLastCommand(t *testing.T) {
	c := newTestController(t, Deps{})
	ctx := context.Background()

	c.HandleText(ctx, "what time is it")
	res := c.HandleText(ctx, "repeat")
	assert.Equal(t, intent.ActionRepeat, res.Command.Action)
	assert.Contains(t, res.Reply, "Repeating last command.")
	assert.Contains(t, res.Reply, "It's 03:04 PM")

	// Repeat stays out of history, so repeating twice replays the same
	// command instead of replaying the repeat itself.
	res = c.HandleText(ctx, "repeat")
	assert.Contains(t, res.Reply, "It's 03:04 PM")
}

func TestUndoExecutesPreviousCommand(t *testing.T) {
	c := newTestController(t, Deps{})
	ctx := context.Background()

	c.HandleText(ctx, "what time is it")
	c.HandleText(ctx, "help")
	res := c.HandleText(ctx, "undo")
	assert.Contains(t, res.Reply, "Executing previous command.")
	assert.Contains(t, res.Reply, "It's 03:04 PM")
}

func TestRepeatWithEmptyHistory(t *testing.T) {
	c := newTestController(t, Deps{})

	res := c.HandleText(context.Background(), "repeat")
	assert.Equal(t, "No previous command to repeat.", res.Reply)
}

func TestModeSwitchToManual(t *testing.T) {
	listener := &scriptedListener{}
	c := newTestController(t, Deps{Listener: listener})
	c.mode = domain.ModeVoice

	res := c.HandleText(context.Background(), "switch to manual mode")
	assert.Equal(t, "Switched to manual mode", res.Reply)
	assert.Equal(t, domain.ModeManual, c.Mode())
}

func TestModeSwitchToVoiceWithoutListener(t *testing.T) {
	c := newTestController(t, Deps{})

	res := c.HandleText(context.Background(), "switch to voice mode")
	assert.Equal(t, "Voice input is not available.", res.Reply)
	assert.Equal(t, domain.ModeManual, c.Mode())
}

func TestListenTimeoutFallsBackToManual(t *testing.T) {
	speaker := &recordingSpeaker{}
	listener := &scriptedListener{
		texts: []string{""},
		errs:  []error{&speech.ListenError{Kind: speech.KindTimeout}},
	}
	c := newTestController(t, Deps{Speaker: speaker, Listener: listener})
	c.mode = domain.ModeVoice

	_, ok := c.acquire(context.Background())
	assert.False(t, ok)
	assert.Equal(t, domain.ModeManual, c.Mode())
	assert.Contains(t, speaker.lines, "I didn't hear anything. Switching to manual mode.")
}

func TestRunLoopExits(t *testing.T) {
	speaker := &recordingSpeaker{}
	reader := &scriptedReader{lines: []string{"what time is it", "exit"}}
	c := newTestController(t, Deps{Speaker: speaker, Reader: reader})

	err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, speaker.lines, "It's 03:04 PM")
	assert.Contains(t, speaker.lines, "Goodbye! Shutting down.")
}

func TestRunLoopStopsAtEndOfInput(t *testing.T) {
	speaker := &recordingSpeaker{}
	reader := &scriptedReader{lines: []string{"help"}}
	c := newTestController(t, Deps{Speaker: speaker, Reader: reader})

	err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, speaker.lines, helpText)
}

func TestAlarmSchedulesTimer(t *testing.T) {
	c := newTestController(t, Deps{})

	res := c.HandleText(context.Background(), "set an alarm in 10 minutes")
	require.True(t, res.AwaitingConfirmation)

	res = c.HandleText(context.Background(), "yes")
	assert.Contains(t, res.Reply, "Alarm set for 10 minutes")
	assert.Equal(t, 1, c.Session().ActiveTimers())

	c.Session().CancelAllTimers()
}

func TestReminderParsesDurationFromTimeText(t *testing.T) {
	c := newTestController(t, Deps{})
	ctx := context.Background()

	res := c.HandleText(ctx, "remind me to stretch in 5 minutes")
	require.True(t, res.AwaitingConfirmation)

	res = c.HandleText(ctx, "yes")
	assert.Contains(t, res.Reply, "Reminder set for 5 minutes: stretch")
	assert.Equal(t, 1, c.Session().ActiveTimers())

	c.Session().CancelAllTimers()
}

func TestReminderWithoutScheduleAsksForOne(t *testing.T) {
	c := newTestController(t, Deps{})
	ctx := context.Background()

	c.HandleText(ctx, "remind me to call mom")
	res := c.HandleText(ctx, "yes")
	assert.Contains(t, res.Reply, "Tell me when")
	assert.Zero(t, c.Session().ActiveTimers())
}

type failingLogger struct{ calls int }

func (l *failingLogger) LogCommand(context.Context, string, domain.Mode) error {
	l.calls++
	return assert.AnError
}

func TestCommandLogFailureDoesNotBlockDispatch(t *testing.T) {
	logger := &failingLogger{}
	c := newTestController(t, Deps{Log: logger})

	res := c.HandleText(context.Background(), "what time is it")
	assert.Equal(t, "It's 03:04 PM", res.Reply)
	assert.Equal(t, 1, logger.calls)
}
