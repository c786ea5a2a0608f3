package dialogue

import (
	"context"
	"fmt"
	"time"

	"jarvis/internal/domain"
	"jarvis/internal/intent"
	"jarvis/internal/session"
)

// Handler executes one resolved command and reports what to say back.
type Handler interface {
	Handle(ctx context.Context, cmd domain.Command) domain.Reply
}

type HandlerFunc func(ctx context.Context, cmd domain.Command) domain.Reply

func (f HandlerFunc) Handle(ctx context.Context, cmd domain.Command) domain.Reply {
	return f(ctx, cmd)
}

// Collaborator contracts, declared where they are consumed. Each service
// returns a user-facing message alongside its success flag so handlers never
// have to invent wording for service failures.
type (
	WeatherService interface {
		Current(ctx context.Context, city string) (bool, string)
	}
	WikiService interface {
		Summary(ctx context.Context, query string) (bool, string)
	}
	SearchService interface {
		Search(query string) (bool, string)
	}
	AppLauncher interface {
		Open(app string) (bool, string)
	}
	StatusService interface {
		Status(ctx context.Context, kind string) string
	}
)

// Collaborators bundles the optional outward-facing services. Nil entries
// get a handler that reports the capability as unavailable.
type Collaborators struct {
	Weather WeatherService
	Wiki    WikiService
	Search  SearchService
	Apps    AppLauncher
	Status  StatusService
}

const helpText = "I can tell you the time and date, report the weather, " +
	"look things up on Wikipedia, search the web, open applications, " +
	"report system status, set alarms and reminders, adjust my volume and " +
	"voice style, switch between voice and manual mode, and repeat or undo " +
	"commands. Say 'exit' when you're done."

func (c *Controller) registerBuiltins() {
	c.handlers[intent.ActionTime] = HandlerFunc(c.handleTime)
	c.handlers[intent.ActionDate] = HandlerFunc(c.handleDate)
	c.handlers[intent.ActionHelp] = HandlerFunc(func(context.Context, domain.Command) domain.Reply {
		return domain.Reply{OK: true, Message: helpText}
	})
	c.handlers[intent.ActionExit] = HandlerFunc(c.handleExit)
	c.handlers[intent.ActionRepeat] = HandlerFunc(c.handleRepeat)
	c.handlers[intent.ActionModeSwitch] = HandlerFunc(c.handleModeSwitch)
	c.handlers[intent.ActionVolume] = HandlerFunc(c.handleVolume)
	c.handlers[intent.ActionVoiceStyle] = HandlerFunc(c.handleVoiceStyle)
	c.handlers[intent.ActionListening] = HandlerFunc(c.handleListening)
	c.handlers[intent.ActionAlarm] = HandlerFunc(c.handleAlarm)
	c.handlers[intent.ActionReminder] = HandlerFunc(c.handleReminder)
	c.handlers[domain.ActionUnknown] = HandlerFunc(func(context.Context, domain.Command) domain.Reply {
		return domain.Reply{Message: "I didn't understand that command. Say 'help' for available commands."}
	})
}

func (c *Controller) registerCollaborators(collab Collaborators) {
	if collab.Weather != nil {
		c.handlers[intent.ActionWeather] = HandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Reply {
			city, _ := cmd.StringParam("city")
			ok, msg := collab.Weather.Current(ctx, city)
			return domain.Reply{OK: ok, Message: msg}
		})
	} else {
		c.handlers[intent.ActionWeather] = unavailable("The weather service")
	}

	if collab.Wiki != nil {
		c.handlers[intent.ActionWikipedia] = HandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Reply {
			query, _ := cmd.StringParam("query")
			ok, msg := collab.Wiki.Summary(ctx, query)
			return domain.Reply{OK: ok, Message: msg}
		})
	} else {
		c.handlers[intent.ActionWikipedia] = unavailable("Wikipedia lookup")
	}

	if collab.Search != nil {
		c.handlers[intent.ActionSearch] = HandlerFunc(func(_ context.Context, cmd domain.Command) domain.Reply {
			query, _ := cmd.StringParam("query")
			ok, msg := collab.Search.Search(query)
			return domain.Reply{OK: ok, Message: msg}
		})
	} else {
		c.handlers[intent.ActionSearch] = unavailable("Web search")
	}

	if collab.Apps != nil {
		c.handlers[intent.ActionOpenApp] = HandlerFunc(func(_ context.Context, cmd domain.Command) domain.Reply {
			app, ok := cmd.StringParam("app")
			if !ok || app == "" {
				return domain.Reply{Message: "Tell me which application to open."}
			}
			opened, msg := collab.Apps.Open(app)
			return domain.Reply{OK: opened, Message: msg}
		})
	} else {
		c.handlers[intent.ActionOpenApp] = unavailable("App launching")
	}

	if collab.Status != nil {
		c.handlers[intent.ActionSystemStatus] = HandlerFunc(func(ctx context.Context, cmd domain.Command) domain.Reply {
			kind, ok := cmd.StringParam("type")
			if !ok {
				kind = "all"
			}
			return domain.Reply{OK: true, Message: collab.Status.Status(ctx, kind)}
		})
	} else {
		c.handlers[intent.ActionSystemStatus] = unavailable("System status")
	}
}

func unavailable(what string) Handler {
	return HandlerFunc(func(context.Context, domain.Command) domain.Reply {
		return domain.Reply{Message: what + " is not available right now."}
	})
}

func (c *Controller) handleTime(context.Context, domain.Command) domain.Reply {
	return domain.Reply{OK: true, Message: fmt.Sprintf("It's %s", c.now().Format("03:04 PM"))}
}

func (c *Controller) handleDate(context.Context, domain.Command) domain.Reply {
	return domain.Reply{OK: true, Message: fmt.Sprintf("Today is %s", c.now().Format("Monday, January 2, 2006"))}
}

// handleExit runs with c.mu held via HandleText, so it writes the flag
// directly instead of calling stop.
func (c *Controller) handleExit(context.Context, domain.Command) domain.Reply {
	c.running = false
	return domain.Reply{OK: true, Message: "Goodbye! Shutting down."}
}

// handleRepeat re-executes a history entry through the ungated path.
// type=repeat replays the most recent command, type=undo the one before it.
func (c *Controller) handleRepeat(ctx context.Context, cmd domain.Command) domain.Reply {
	kind, _ := cmd.StringParam("type")
	if kind == "undo" {
		prev, ok := c.session.PreviousCommand(2)
		if !ok {
			return domain.Reply{Message: "No previous command found."}
		}
		res := c.redispatch(ctx, prev)
		return domain.Reply{OK: true, Message: joinReplies("Executing previous command.", res.Reply)}
	}

	last, ok := c.session.LastCommand()
	if !ok {
		return domain.Reply{Message: "No previous command to repeat."}
	}
	res := c.redispatch(ctx, last)
	return domain.Reply{OK: true, Message: joinReplies("Repeating last command.", res.Reply)}
}

func (c *Controller) handleModeSwitch(_ context.Context, cmd domain.Command) domain.Reply {
	mode, ok := cmd.StringParam("mode")
	if !ok {
		return domain.Reply{Message: "Tell me which mode: voice or manual."}
	}
	switch mode {
	case "manual":
		c.mode = domain.ModeManual
		return domain.Reply{OK: true, Message: "Switched to manual mode"}
	case "voice":
		if c.listener == nil {
			return domain.Reply{Message: "Voice input is not available."}
		}
		c.mode = domain.ModeVoice
		return domain.Reply{OK: true, Message: "Switched to voice mode"}
	}
	return domain.Reply{Message: "Tell me which mode: voice or manual."}
}

func (c *Controller) handleVolume(_ context.Context, cmd domain.Command) domain.Reply {
	adjustment, ok := cmd.StringParam("adjustment")
	if !ok {
		return domain.Reply{Message: "Tell me louder, softer, or mute."}
	}
	if c.voice == nil {
		return domain.Reply{Message: "Voice control is not available."}
	}
	c.voice.AdjustVolume(adjustment)
	if adjustment == "mute" {
		if c.voice.Muted() {
			return domain.Reply{OK: true, Message: "Voice muted"}
		}
		return domain.Reply{OK: true, Message: "Voice unmuted"}
	}
	return domain.Reply{OK: true, Message: "Volume adjusted"}
}

func (c *Controller) handleVoiceStyle(_ context.Context, cmd domain.Command) domain.Reply {
	style, ok := cmd.StringParam("style")
	if !ok {
		return domain.Reply{Message: "Available styles: formal, casual, robotic."}
	}
	if c.voice == nil {
		return domain.Reply{Message: "Voice control is not available."}
	}
	if !c.voice.SetStyle(style) {
		return domain.Reply{Message: fmt.Sprintf("Voice style %s not available", style)}
	}
	return domain.Reply{OK: true, Message: fmt.Sprintf("Voice changed to %s style", style)}
}

func (c *Controller) handleListening(_ context.Context, cmd domain.Command) domain.Reply {
	mode, ok := cmd.StringParam("mode")
	if !ok {
		return domain.Reply{Message: "Tell me to start or stop listening."}
	}
	switch mode {
	case "start":
		c.continuous = true
		return domain.Reply{OK: true, Message: "Starting continuous listening mode"}
	case "stop":
		c.continuous = false
		return domain.Reply{OK: true, Message: "Stopping continuous listening mode"}
	}
	return domain.Reply{Message: "Tell me to start or stop listening."}
}

func (c *Controller) handleAlarm(_ context.Context, cmd domain.Command) domain.Reply {
	value, okValue := cmd.IntParam("value")
	unit, okUnit := cmd.StringParam("unit")
	if !okValue || !okUnit {
		return domain.Reply{Message: "Tell me how long, like 'set an alarm in 10 minutes'."}
	}

	seconds := session.SecondsFor(value, unit)
	c.session.ScheduleTimer(time.Duration(seconds)*time.Second, func() {
		c.speaker.Speak(fmt.Sprintf("Alarm! %d %s has passed!", value, unit))
	})
	return domain.Reply{OK: true, Message: fmt.Sprintf("Alarm set for %d %s", value, unit)}
}

func (c *Controller) handleReminder(_ context.Context, cmd domain.Command) domain.Reply {
	message, _ := cmd.StringParam("message")
	if message == "" {
		return domain.Reply{Message: "Tell me what to remind you about."}
	}

	value, okValue := cmd.IntParam("value")
	unit, okUnit := cmd.StringParam("unit")
	if !okValue || !okUnit {
		// Tier-one reminders carry the schedule as free text; pull a
		// duration out of it when one is present.
		if at, ok := cmd.StringParam("time"); ok {
			value, unit, okValue = intent.ParseDuration(at)
			okUnit = okValue
		}
	}
	if !okValue || !okUnit {
		return domain.Reply{Message: "Tell me when, like 'remind me to stretch in 10 minutes'."}
	}

	seconds := session.SecondsFor(value, unit)
	c.session.ScheduleTimer(time.Duration(seconds)*time.Second, func() {
		c.speaker.Speak(fmt.Sprintf("Reminder: %s", message))
	})
	return domain.Reply{OK: true, Message: fmt.Sprintf("Reminder set for %d %s: %s", value, unit, message)}
}
