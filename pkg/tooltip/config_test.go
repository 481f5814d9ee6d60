package tooltip

import (
	"testing"
	"time"

	"github.com/vango-dev/tooltip/pkg/position"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Content != "Tooltip Content" {
		t.Errorf("Content = %v", cfg.Content)
	}
	if cfg.Template != "tooltip" {
		t.Errorf("Template = %q", cfg.Template)
	}
	if cfg.Activation != Click {
		t.Errorf("Activation = %q", cfg.Activation)
	}
	if cfg.EventDelay != 200*time.Millisecond {
		t.Errorf("EventDelay = %v", cfg.EventDelay)
	}
	if !cfg.AutoAttach {
		t.Error("AutoAttach = false")
	}
	if cfg.ShownClass != "shown" {
		t.Errorf("ShownClass = %q", cfg.ShownClass)
	}
	if cfg.Origin != position.TopRight {
		t.Errorf("Origin = %q", cfg.Origin)
	}
	if cfg.Group != "" {
		t.Errorf("Group = %q", cfg.Group)
	}
	if cfg.Styles["position"] != "absolute" || cfg.Styles["z-index"] != "1" {
		t.Errorf("Styles = %v", cfg.Styles)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	styles := map[string]string{"position": "fixed"}
	cfg := Config{Styles: styles}
	cfg.applyDefaults()

	if cfg.Content != DefaultContent {
		t.Errorf("Content = %v, want %q", cfg.Content, DefaultContent)
	}
	if cfg.Template != "tooltip" || cfg.Activation != Click || cfg.ShownClass != "shown" || cfg.Origin != position.TopRight {
		t.Errorf("applyDefaults() = %+v", cfg)
	}
	if cfg.EventDelay != 0 || cfg.AutoAttach {
		t.Error("applyDefaults() changed EventDelay or AutoAttach")
	}

	cfg.Styles["position"] = "absolute"
	if styles["position"] != "fixed" {
		t.Error("Styles map shared with caller")
	}

	empty := Config{Styles: map[string]string{}}
	empty.applyDefaults()
	if len(empty.Styles) != 0 {
		t.Errorf("explicit empty Styles replaced: %v", empty.Styles)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero delay", func(c *Config) { c.EventDelay = 0 }, false},
		{"negative delay", func(c *Config) { c.EventDelay = -1 }, true},
		{"hover", func(c *Config) { c.Activation = Hover }, false},
		{"none", func(c *Config) { c.Activation = Manual }, false},
		{"unknown activation", func(c *Config) { c.Activation = "dblclick" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseActivation(t *testing.T) {
	tests := []struct {
		in      string
		want    Activation
		wantErr bool
	}{
		{"click", Click, false},
		{"hover", Hover, false},
		{"focus", Focus, false},
		{"none", Manual, false},
		{"", Click, false},
		{"Click", "", true},
	}
	for _, tt := range tests {
		got, err := ParseActivation(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseActivation(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestConfigVars(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Label = "Help"
	vars := cfg.vars()
	if vars["content"] != "Tooltip Content" || vars["label"] != "Help" || vars["eventDelay"] != int64(200) {
		t.Errorf("vars() = %v", vars)
	}

	cfg.Content = map[string]any{"content": "override", "extra": 1}
	vars = cfg.vars()
	if vars["content"] != "override" || vars["extra"] != 1 {
		t.Errorf("vars() with map content = %v", vars)
	}

	cfg.Content = nil
	if _, ok := cfg.vars()["content"]; ok {
		t.Error("nil content produced a content var")
	}
}
