// Package dialogue drives the request/response loop: it acquires utterances
// per the current mode, resolves them into commands, applies confirmation
// gating for sensitive actions, and dispatches to registered handlers.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"jarvis/internal/domain"
	"jarvis/internal/intent"
	"jarvis/internal/session"
	"jarvis/internal/speech"
)

// CommandLogger records every accepted utterance. Logging failures must not
// break the loop; the controller reports them and carries on.
type CommandLogger interface {
	LogCommand(ctx context.Context, text string, mode domain.Mode) error
}

// MultiLogger fans a command out to several loggers in order.
type MultiLogger []CommandLogger

func (m MultiLogger) LogCommand(ctx context.Context, text string, mode domain.Mode) error {
	var errs []error
	for _, l := range m {
		if err := l.LogCommand(ctx, text, mode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Config struct {
	// Mode is the starting acquisition mode. Defaults to manual when no
	// listener is wired.
	Mode domain.Mode
	// Now is the clock for the time/date handlers. Defaults to time.Now.
	Now func() time.Time
}

// Deps are the collaborators the controller speaks through. Speaker is
// required; the rest may be nil and degrade gracefully.
type Deps struct {
	Speaker  speech.Speaker
	Listener speech.Listener
	Reader   speech.LineReader
	Voice    speech.VoiceControl
	Log      CommandLogger
	Collab   Collaborators
}

// Result is the outcome of handling one utterance.
type Result struct {
	Command              domain.Command `json:"command"`
	Reply                string         `json:"reply"`
	AwaitingConfirmation bool           `json:"awaiting_confirmation"`
}

type Controller struct {
	resolver *intent.Resolver
	session  *session.State
	speaker  speech.Speaker
	listener speech.Listener
	reader   speech.LineReader
	voice    speech.VoiceControl
	cmdLog   CommandLogger
	logger   *slog.Logger
	handlers map[string]Handler
	now      func() time.Time

	// mu serializes utterance handling and guards mode/running/continuous;
	// handlers run with it held.
	mu         sync.Mutex
	mode       domain.Mode
	running    bool
	continuous bool
}

func New(cfg Config, resolver *intent.Resolver, sess *session.State, deps Deps, logger *slog.Logger) *Controller {
	mode := cfg.Mode
	if mode == "" {
		mode = domain.ModeVoice
	}
	if deps.Listener == nil {
		mode = domain.ModeManual
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		resolver: resolver,
		session:  sess,
		speaker:  deps.Speaker,
		listener: deps.Listener,
		reader:   deps.Reader,
		voice:    deps.Voice,
		cmdLog:   deps.Log,
		logger:   logger,
		handlers: make(map[string]Handler),
		now:      now,
		mode:     mode,
	}
	c.registerBuiltins()
	c.registerCollaborators(deps.Collab)
	return c
}

// RegisterHandler binds a handler to an action name, replacing any previous
// binding.
func (c *Controller) RegisterHandler(action string, h Handler) {
	c.handlers[action] = h
}

// Session exposes the controller's session state for inspection surfaces.
func (c *Controller) Session() *session.State { return c.session }

func (c *Controller) Mode() domain.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Run drives the dialogue loop until an exit command, end of input, or
// context cancellation. Any panic inside an iteration is reported and the
// loop continues.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	c.running = true
	greeting := fmt.Sprintf("Hello! I am Jarvis, your assistant. I'm currently in %s mode.", c.mode)
	c.mu.Unlock()

	c.speaker.Speak(greeting)
	c.speaker.Speak("Say 'help' to know what I can do.")

	for c.isRunning() {
		if ctx.Err() != nil {
			c.speaker.Speak("Shutting down. Goodbye!")
			return nil
		}
		c.iterate(ctx)
	}
	return nil
}

func (c *Controller) iterate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("dialogue iteration failed", "panic", r)
			c.speaker.Speak("I encountered an error. Please try again.")
		}
	}()

	text, ok := c.acquire(ctx)
	if !ok {
		return
	}
	res := c.HandleText(ctx, text)
	if res.Reply != "" {
		c.speaker.Speak(res.Reply)
	}
}

// HandleText processes one utterance: a confirmation response when a
// confirmation is pending, otherwise a fresh command. It is the single
// entry point for both the interactive loop and the HTTP surface.
func (c *Controller) HandleText(ctx context.Context, raw string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, pending := c.session.PendingConfirmation(); pending {
		return c.resolveConfirmation(ctx, raw)
	}

	cmd := c.resolver.Resolve(raw)
	if c.cmdLog != nil {
		if err := c.cmdLog.LogCommand(ctx, raw, c.mode); err != nil {
			c.logger.Warn("command log failed", "error", err)
		}
	}
	c.logger.Info("command resolved", "action", cmd.Action, "mode", c.mode)
	return c.dispatch(ctx, cmd)
}

var affirmations = []string{"yes", "yeah", "sure"}

func (c *Controller) resolveConfirmation(ctx context.Context, raw string) Result {
	lower := strings.ToLower(raw)
	affirmed := false
	for _, word := range affirmations {
		if strings.Contains(lower, word) {
			affirmed = true
			break
		}
	}
	if !affirmed {
		c.session.ClearPendingConfirmation()
		return Result{Reply: "Cancelled"}
	}

	cmd, ok := c.session.ConfirmAction()
	if !ok {
		return Result{Reply: "Nothing to confirm"}
	}
	res := c.redispatch(ctx, cmd)
	res.Reply = joinReplies("Confirmed.", res.Reply)
	return res
}

// dispatch gates sensitive actions behind a confirmation and records the
// command in history. Repeat commands stay out of history so "repeat that"
// cannot chase its own tail.
func (c *Controller) dispatch(ctx context.Context, cmd domain.Command) Result {
	if cmd.Action != intent.ActionRepeat {
		c.session.AddToHistory(cmd)
	}

	if session.NeedsConfirmation(cmd.Action) {
		if _, pending := c.session.PendingConfirmation(); !pending {
			msg := confirmationPrompt(cmd)
			c.session.SetPendingConfirmation(cmd.Action, cmd.Params, msg)
			return Result{Command: cmd, Reply: msg, AwaitingConfirmation: true}
		}
	}
	return c.redispatch(ctx, cmd)
}

// redispatch executes a command without confirmation gating. It is the only
// ungated path: confirmed commands and history re-execution (repeat/undo)
// both funnel through here, so the gating policy lives in one place.
func (c *Controller) redispatch(ctx context.Context, cmd domain.Command) Result {
	h, ok := c.handlers[cmd.Action]
	if !ok {
		h = c.handlers[domain.ActionUnknown]
	}
	reply := h.Handle(ctx, cmd)
	if !reply.OK {
		c.logger.Info("handler reported failure", "action", cmd.Action, "message", reply.Message)
	}
	return Result{Command: cmd, Reply: reply.Message}
}

func confirmationPrompt(cmd domain.Command) string {
	switch cmd.Action {
	case intent.ActionOpenApp:
		if app, ok := cmd.StringParam("app"); ok {
			return fmt.Sprintf("Do you want me to open %s? Say yes or no.", app)
		}
	case intent.ActionAlarm:
		if value, ok := cmd.IntParam("value"); ok {
			if unit, ok := cmd.StringParam("unit"); ok {
				return fmt.Sprintf("Do you want me to set an alarm for %d %s? Say yes or no.", value, unit)
			}
		}
	case intent.ActionReminder:
		if msg, ok := cmd.StringParam("message"); ok {
			return fmt.Sprintf("Do you want me to set a reminder for %s? Say yes or no.", msg)
		}
	}
	return "Do you want me to continue? Say yes or no."
}

// acquire obtains the next utterance per the current mode. A voice failure
// falls back to manual mode; end of typed input stops the loop.
func (c *Controller) acquire(ctx context.Context) (string, bool) {
	_, pending := c.session.PendingConfirmation()

	if c.Mode() == domain.ModeVoice {
		if c.listener == nil {
			c.handleListenFailure(&speech.ListenError{Kind: speech.KindOther, Detail: "no voice input available"})
			return "", false
		}
		text, err := c.listener.Listen(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "", false
			}
			if pending {
				c.speaker.Speak("I didn't hear you. Please say yes or no.")
				return "", false
			}
			c.handleListenFailure(err)
			return "", false
		}
		return text, true
	}

	if pending {
		c.speaker.Speak("Type yes or no:")
	} else {
		c.speaker.Speak("Type your command:")
	}
	if c.reader == nil {
		c.stop()
		return "", false
	}
	line, ok := c.reader.ReadLine()
	if !ok {
		c.stop()
		return "", false
	}
	if line == "" {
		return "", false
	}
	return line, true
}

func (c *Controller) handleListenFailure(err error) {
	var lerr *speech.ListenError
	if !errors.As(err, &lerr) {
		lerr = &speech.ListenError{Kind: speech.KindOther, Detail: err.Error()}
	}

	switch lerr.Kind {
	case speech.KindTimeout:
		c.fallBackToManual("I didn't hear anything. Switching to manual mode.")
	case speech.KindUnknown:
		c.fallBackToManual("I couldn't understand that. Switching to manual mode.")
	case speech.KindNetwork:
		c.fallBackToManual("Network error detected. Switching to manual mode.")
	case speech.KindMaxRetries:
		c.fallBackToManual("Maximum retries reached. Switching to manual mode.")
	default:
		c.speaker.Speak("Error: " + lerr.Error())
	}
}

func (c *Controller) fallBackToManual(message string) {
	c.speaker.Speak(message)
	c.mu.Lock()
	c.mode = domain.ModeManual
	c.mu.Unlock()
	c.logger.Info("switched to manual mode after speech failure")
}

func (c *Controller) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Controller) stop() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func joinReplies(first, second string) string {
	if second == "" {
		return first
	}
	return first + " " + second
}
