// Package intent maps normalized utterances onto a fixed catalog of intents
// and extracts their parameters. The catalog is read-only after construction;
// adding an intent means adding one catalog entry.
package intent

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Spec defines one intent: representative keywords for overlap scoring and
// regular expressions for the pattern pass. Pattern order matters (first
// match wins); keyword order only matters for the strict fallback, which
// treats the first two keywords as required.
type Spec struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

type compiled struct {
	Spec
	patterns []*regexp.Regexp
}

// Catalog is an ordered, immutable set of intent specs. Iteration order is
// construction order and is the tie-break everywhere in the resolver.
type Catalog struct {
	specs []compiled
	index map[string]int
}

// NewCatalog compiles specs into a catalog. Every pattern must compile and
// every name must be unique and non-empty.
func NewCatalog(specs []Spec) (*Catalog, error) {
	c := &Catalog{
		specs: make([]compiled, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("intent with empty name")
		}
		if _, dup := c.index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate intent %q", spec.Name)
		}
		entry := compiled{Spec: spec, patterns: make([]*regexp.Regexp, 0, len(spec.Patterns))}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("intent %q: invalid pattern %q: %w", spec.Name, p, err)
			}
			entry.patterns = append(entry.patterns, re)
		}
		c.index[spec.Name] = len(c.specs)
		c.specs = append(c.specs, entry)
	}
	return c, nil
}

// Load reads a YAML catalog file: a list of {name, keywords, patterns}.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var specs []Spec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("catalog %s defines no intents", path)
	}
	return NewCatalog(specs)
}

// Contains reports whether name is a catalog intent.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names returns intent names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.Name
	}
	return out
}

func (c *Catalog) Len() int { return len(c.specs) }

// Specs returns a copy of the raw specs in catalog order.
func (c *Catalog) Specs() []Spec {
	out := make([]Spec, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.Spec
	}
	return out
}

// Intent names of the built-in catalog.
const (
	ActionTime         = "time"
	ActionDate         = "date"
	ActionWeather      = "weather"
	ActionWikipedia    = "wikipedia"
	ActionSearch       = "search"
	ActionOpenApp      = "open_app"
	ActionSystemStatus = "system_status"
	ActionAlarm        = "alarm"
	ActionReminder     = "reminder"
	ActionVolume       = "volume"
	ActionModeSwitch   = "mode_switch"
	ActionVoiceStyle   = "voice_style"
	ActionHelp         = "help"
	ActionExit         = "exit"
	ActionListening    = "listening"
	ActionRepeat       = "repeat"
)

// DefaultSpecs returns the built-in catalog definition. Order is significant:
// the pattern pass and every tie-break walk it front to back. mode_switch
// sits before voice_style so "voice mode" is not shadowed by the voice_style
// pattern, and repeat sits last so its generic vocabulary never shadows the
// rest.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Name:     ActionTime,
			Keywords: []string{"time", "clock"},
			Patterns: []string{`\bwhat.?time\b`, `\btell.*time\b`, `\btime now\b`, `\bcurrent time\b`},
		},
		{
			Name:     ActionDate,
			Keywords: []string{"date", "day", "today"},
			Patterns: []string{`\bwhat.?date\b`, `\btell.*date\b`, `\bwhat's today\b`, `\bcurrent date\b`},
		},
		{
			Name:     ActionWeather,
			Keywords: []string{"weather", "temperature", "forecast", "rain", "hot", "cold"},
			Patterns: []string{`\bweather\b`, `\bhow.*temperature\b`, `\bforecast\b`},
		},
		{
			Name:     ActionWikipedia,
			Keywords: []string{"who", "what", "wikipedia", "wiki", "tell", "about"},
			Patterns: []string{`\b(who|what)\b.*\b(is|was|are)\b`, `\btell me about\b`, `\bwikipedia\b`, `\bwiki\b`},
		},
		{
			Name:     ActionSearch,
			Keywords: []string{"search", "google", "find", "look", "lookup", "searching"},
			Patterns: []string{`\bsearch\b`, `\blook up\b`, `\bgoogle\b`, `\bfind\b`},
		},
		{
			Name:     ActionOpenApp,
			Keywords: []string{"open", "launch", "start", "run"},
			Patterns: []string{`\bopen\b`, `\blaunch\b`, `\bstart\b`, `\brun\b`},
		},
		{
			Name:     ActionSystemStatus,
			Keywords: []string{"cpu", "battery", "memory", "ram", "network", "internet", "status"},
			Patterns: []string{`\bsystem\b.*\b(status|info)\b`, `\b(cpu|battery|memory|ram|network|internet)\b`},
		},
		{
			Name:     ActionAlarm,
			Keywords: []string{"alarm", "wake"},
			Patterns: []string{`\balarm\b`, `\bwake me\b`},
		},
		{
			Name:     ActionReminder,
			Keywords: []string{"remind", "reminder", "remember"},
			Patterns: []string{`\b(remind|reminder)\b`, `\bremember\b`},
		},
		{
			Name:     ActionVolume,
			Keywords: []string{"volume", "louder", "softer", "mute", "unmute", "quieter"},
			Patterns: []string{`\b(louder|softer|mute|unmute|volume|quieter)\b`},
		},
		{
			Name:     ActionModeSwitch,
			Keywords: []string{"switch", "mode"},
			Patterns: []string{`\b(voice|manual) mode\b`, `\bswitch.*mode\b`},
		},
		{
			Name:     ActionVoiceStyle,
			Keywords: []string{"voice", "style", "formal", "casual", "robotic"},
			Patterns: []string{`\b(voice|style)\b`, `\bformal\b`, `\bcasual\b`, `\brobotic\b`},
		},
		{
			Name:     ActionHelp,
			Keywords: []string{"help", "commands", "features"},
			Patterns: []string{`\bhelp\b`, `\bwhat can you do\b`, `\bcommands\b`},
		},
		{
			Name:     ActionExit,
			Keywords: []string{"exit", "quit", "bye", "goodbye", "stop"},
			Patterns: []string{`\b(exit|quit|bye|goodbye|stop)\b`},
		},
		{
			Name:     ActionListening,
			Keywords: []string{"start", "stop", "listening"},
			Patterns: []string{`\bstart listening\b`, `\bstop listening\b`},
		},
		{
			Name:     ActionRepeat,
			Keywords: []string{"repeat", "undo"},
			Patterns: []string{`\brepeat\b`, `\bsay that again\b`, `\bdo that again\b`, `\bundo\b`},
		},
	}
}

// Default returns the built-in catalog. The built-in specs always compile.
func Default() *Catalog {
	c, err := NewCatalog(DefaultSpecs())
	if err != nil {
		panic(err)
	}
	return c
}
