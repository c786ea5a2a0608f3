package intent

import (
	"regexp"
	"strconv"
	"strings"

	"jarvis/internal/domain"
)

var (
	cityPattern     = regexp.MustCompile(`in\s+([a-z\s]+)$`)
	searchPattern   = regexp.MustCompile(`(?:search\s+for|search|google|find)\s+(.+)$`)
	openPattern     = regexp.MustCompile(`(?:open|launch|start|run)\s+(.+)$`)
	reminderPattern = regexp.MustCompile(`remind me (?:to\s+)?(.+?) (?:in|at|on|after)\s+(.+)$`)
	simpleRemind    = regexp.MustCompile(`remind me to (.+)$`)
	durationPattern = regexp.MustCompile(`(\d+)\s*(second|seconds|minute|minutes|hour|hours)`)
)

var wikipediaLeads = []string{"who is", "what is", "tell me about", "wikipedia", "wiki"}

// ParseDuration pulls the first "<n> <unit>" span out of free text, e.g.
// "in 10 minutes" yields (10, "minutes", true).
func ParseDuration(s string) (value int, unit string, ok bool) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, "", false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return value, m[2], true
}

// ExtractParams extracts the parameters an intent defines from the normalized
// text and, for some intents, the raw utterance. It is total: a missing match
// degrades to a nil value or a documented default, never an error. Intents
// without parameters yield an empty map.
func ExtractParams(action, text, raw string) map[string]any {
	params := map[string]any{}

	switch action {
	case ActionWeather:
		if m := cityPattern.FindStringSubmatch(text); m != nil {
			params["city"] = strings.TrimSpace(m[1])
		} else {
			params["city"] = nil
		}

	case ActionSearch:
		if m := searchPattern.FindStringSubmatch(text); m != nil {
			params["query"] = strings.TrimSpace(m[1])
		} else {
			params["query"] = text
		}

	case ActionWikipedia:
		for _, lead := range wikipediaLeads {
			if idx := strings.Index(text, lead); idx >= 0 {
				phrase := strings.TrimSpace(text[idx+len(lead):])
				if phrase != "" {
					params["query"] = phrase
					return params
				}
			}
		}
		params["query"] = raw

	case ActionOpenApp:
		if m := openPattern.FindStringSubmatch(text); m != nil {
			params["app"] = strings.TrimSpace(m[1])
		} else {
			params["app"] = text
		}

	case ActionReminder:
		lower := strings.ToLower(raw)
		if m := reminderPattern.FindStringSubmatch(lower); m != nil {
			params["message"] = strings.TrimSpace(m[1])
			params["time"] = strings.TrimSpace(m[2])
		} else if m := durationPattern.FindStringSubmatch(lower); m != nil {
			value, _ := strconv.Atoi(m[1])
			params["value"] = value
			params["unit"] = m[2]
		} else if m := simpleRemind.FindStringSubmatch(lower); m != nil {
			params["message"] = strings.TrimSpace(m[1])
		} else {
			params["message"] = raw
		}

	case ActionAlarm:
		lower := strings.ToLower(raw)
		if m := durationPattern.FindStringSubmatch(lower); m != nil {
			value, _ := strconv.Atoi(m[1])
			params["value"] = value
			params["unit"] = m[2]
		} else {
			params["value"] = nil
			params["unit"] = nil
		}

	case ActionVolume:
		switch {
		case containsAny(text, "louder", "increase", "up"):
			params["adjustment"] = "louder"
		case containsAny(text, "softer", "down", "quieter"):
			params["adjustment"] = "softer"
		case containsAny(text, "mute", "silence", "quiet"):
			params["adjustment"] = "mute"
		default:
			params["adjustment"] = nil
		}

	case ActionVoiceStyle:
		switch {
		case strings.Contains(text, "formal"):
			params["style"] = "formal"
		case strings.Contains(text, "casual"):
			params["style"] = "casual"
		case strings.Contains(text, "robotic") || strings.Contains(text, "robot"):
			params["style"] = "robotic"
		default:
			params["style"] = nil
		}

	case ActionSystemStatus:
		switch {
		case strings.Contains(text, "cpu"):
			params["type"] = "cpu"
		case strings.Contains(text, "battery"):
			params["type"] = "battery"
		case containsAny(text, "network", "internet", "connection"):
			params["type"] = "network"
		default:
			params["type"] = "all"
		}

	case ActionModeSwitch:
		switch {
		case strings.Contains(text, "manual"):
			params["mode"] = string(domain.ModeManual)
		case strings.Contains(text, "voice"):
			params["mode"] = string(domain.ModeVoice)
		default:
			params["mode"] = nil
		}

	case ActionListening:
		switch {
		case strings.Contains(text, "start"):
			params["mode"] = "start"
		case strings.Contains(text, "stop"):
			params["mode"] = "stop"
		default:
			params["mode"] = nil
		}

	case ActionRepeat:
		if strings.Contains(text, "undo") {
			params["type"] = "undo"
		} else {
			params["type"] = "repeat"
		}
	}

	return params
}

func containsAny(text string, substrings ...string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
