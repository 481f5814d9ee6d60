package tooltip

import (
	"fmt"
	"time"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/position"
	"github.com/vango-dev/tooltip/pkg/templates"
)

// Activation selects which interactions drive a tooltip's visibility.
type Activation string

const (
	Click  Activation = "click"
	Hover  Activation = "hover"
	Focus  Activation = "focus"
	Manual Activation = "none"
)

// ParseActivation converts a configuration string.
func ParseActivation(s string) (Activation, error) {
	switch a := Activation(s); a {
	case Click, Hover, Focus, Manual:
		return a, nil
	case "":
		return Click, nil
	}
	return "", fmt.Errorf("unknown activation %q", s)
}

// Defaults applied by DefaultConfig and by New for empty fields.
const (
	DefaultContent    = "Tooltip Content"
	DefaultEventDelay = 200 * time.Millisecond
	DefaultShownClass = "shown"
	DefaultOrigin     = position.TopRight
)

// DefaultStyles are the inline styles applied to every panel unless Styles
// is set.
func DefaultStyles() map[string]string {
	return map[string]string{
		"position": "absolute",
		"z-index":  "1",
	}
}

// Config is the per-instance configuration. Start from DefaultConfig; New
// fills empty string fields, a nil Content and a nil Styles map with their
// defaults, but
// EventDelay and AutoAttach are taken as given.
type Config struct {
	// Content is substituted into the template. A string (or any other
	// value) fills {content}; a map[string]any fills one placeholder per key.
	Content any

	// Template is the name of a registered template.
	Template string

	// Activation selects the interactions that drive visibility.
	Activation Activation

	// EventDelay is how long a hover tooltip stays visible after the pointer
	// leaves the trigger.
	EventDelay time.Duration

	// AutoAttach wires event listeners during construction.
	AutoAttach bool

	// ShownClass is added to the panel one tick after it is inserted.
	ShownClass string

	// Origin is the trigger corner the panel is anchored to.
	Origin position.Origin

	// Group makes tooltips with the same non-empty name mutually exclusive.
	Group string

	// Styles are inline styles applied to the panel.
	Styles map[string]string

	// Button names a template rendered as a separate activation element,
	// appended to the trigger. Ignored for focus activation, where the
	// trigger itself receives focus.
	Button string

	// Label fills {label} in the button template.
	Label string
}

// DefaultConfig returns the configuration every field defaults to.
func DefaultConfig() Config {
	return Config{
		Content:    DefaultContent,
		Template:   templates.Tooltip,
		Activation: Click,
		EventDelay: DefaultEventDelay,
		AutoAttach: true,
		ShownClass: DefaultShownClass,
		Origin:     DefaultOrigin,
		Styles:     DefaultStyles(),
	}
}

// applyDefaults fills empty fields and copies Styles so the caller's map is
// never shared with the instance.
func (c *Config) applyDefaults() {
	if c.Content == nil {
		c.Content = DefaultContent
	}
	if c.Template == "" {
		c.Template = templates.Tooltip
	}
	if c.Activation == "" {
		c.Activation = Click
	}
	if c.ShownClass == "" {
		c.ShownClass = DefaultShownClass
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}

	styles := c.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	c.Styles = make(map[string]string, len(styles))
	for k, v := range styles {
		c.Styles[k] = v
	}
}

// Validate reports configuration values New would reject.
func (c Config) Validate() error {
	if _, err := ParseActivation(string(c.Activation)); err != nil {
		return errors.New(errors.CodeInvalidConfig).Wrap(err)
	}
	if c.EventDelay < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetailf("event delay %v is negative", c.EventDelay)
	}
	return nil
}

// vars returns the template variables for the panel.
func (c Config) vars() map[string]any {
	vars := map[string]any{
		"template":   c.Template,
		"activation": string(c.Activation),
		"eventDelay": c.EventDelay.Milliseconds(),
		"shownClass": c.ShownClass,
		"origin":     string(c.Origin),
		"group":      c.Group,
		"label":      c.Label,
	}
	switch content := c.Content.(type) {
	case map[string]any:
		for k, v := range content {
			vars[k] = v
		}
	case nil:
	default:
		vars["content"] = content
	}
	return vars
}
