package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/position"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if len(cfg.Templates.Paths) != 1 || cfg.Templates.Paths[0] != DefaultTemplates {
		t.Errorf("Templates.Paths = %v", cfg.Templates.Paths)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if !errors.Is(err, errors.New(errors.CodeConfigNotFound)) {
		t.Errorf("Load() on empty dir error = %v, want %s", err, errors.CodeConfigNotFound)
	}

	writeConfig(t, tmpDir, `{
  "name": "Docs",
  "server": {"host": "0.0.0.0", "port": 8080},
  "page": {"body": "page.html"},
  "metrics": {"enabled": false},
  "tooltips": [
    {"trigger": "save", "content": "Saves a draft", "activation": "hover", "eventDelay": "350ms", "origin": "bottom-left"},
    {"trigger": "faq-1", "content": {"title": "Q1"}, "template": "card", "group": "faq", "autoAttach": false}
  ]
}
`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if cfg.Session.QueueSize != 256 || cfg.PingInterval() != 30*time.Second {
		t.Errorf("session defaults not applied: %+v", cfg.Session)
	}
	if cfg.ShutdownTimeout() != 5*time.Second {
		t.Errorf("ShutdownTimeout() = %v", cfg.ShutdownTimeout())
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Namespace != "tooltip" {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if got, want := cfg.BodyPath(), filepath.Join(tmpDir, "page.html"); got != want {
		t.Errorf("BodyPath() = %q, want %q", got, want)
	}
	if cfg.StylesheetPath() != "" {
		t.Errorf("StylesheetPath() = %q, want empty", cfg.StylesheetPath())
	}
	if cfg.TemplateDir() != tmpDir {
		t.Errorf("TemplateDir() = %q", cfg.TemplateDir())
	}

	if len(cfg.Tooltips) != 2 {
		t.Fatalf("len(Tooltips) = %d, want 2", len(cfg.Tooltips))
	}

	save, err := cfg.Tooltips[0].Tooltip()
	if err != nil {
		t.Fatalf("Tooltip() error = %v", err)
	}
	if save.Activation != tooltip.Hover || save.EventDelay != 350*time.Millisecond || save.Origin != position.BottomLeft {
		t.Errorf("save tooltip = %+v", save)
	}
	if !save.AutoAttach || save.Template != "tooltip" || save.ShownClass != "shown" {
		t.Errorf("save tooltip defaults = %+v", save)
	}

	faq, err := cfg.Tooltips[1].Tooltip()
	if err != nil {
		t.Fatalf("Tooltip() error = %v", err)
	}
	if faq.AutoAttach || faq.Group != "faq" || faq.Template != "card" {
		t.Errorf("faq tooltip = %+v", faq)
	}
	content, ok := faq.Content.(map[string]any)
	if !ok || content["title"] != "Q1" {
		t.Errorf("faq content = %#v", faq.Content)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `{"server": `)

	_, err := LoadFile(path)
	if errors.CodeOf(err) != errors.CodeConfigLoad {
		t.Fatalf("LoadFile() error = %v, want %s", err, errors.CodeConfigLoad)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"negative queue", func(c *Config) { c.Session.QueueSize = -1 }, "queueSize"},
		{"bad ping", func(c *Config) { c.Session.PingInterval = "soon" }, "session.pingInterval"},
		{"missing trigger", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Content: "x"}}
		}, "trigger is required"},
		{"duplicate trigger", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Trigger: "a"}, {Trigger: "a"}}
		}, "declared twice"},
		{"bad activation", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Trigger: "a", Activation: "drag"}}
		}, "tooltips[0] (a)"},
		{"bad origin", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Trigger: "a", Origin: "middle"}}
		}, "tooltips[0]"},
		{"negative delay", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Trigger: "a", EventDelay: "-5ms"}}
		}, "tooltips[0]"},
		{"millisecond delay", func(c *Config) {
			c.Tooltips = []TooltipConfig{{Trigger: "a", EventDelay: "250"}}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() succeeded, want error containing %q", tt.wantErr)
			}
			if errors.CodeOf(err) != errors.CodeInvalidConfig {
				t.Errorf("CodeOf = %q, want %s", errors.CodeOf(err), errors.CodeInvalidConfig)
			}
			var e *errors.Error
			if !errors.As(err, &e) {
				t.Fatalf("Validate() error %T is not *errors.Error", err)
			}
			if msg := e.Detail + ": " + err.Error(); !strings.Contains(msg, tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", msg, tt.wantErr)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"200ms", 200 * time.Millisecond, false},
		{"1.5s", 1500 * time.Millisecond, false},
		{"250", 250 * time.Millisecond, false},
		{"0", 0, false},
		{"-1s", 0, true},
		{"later", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDuration(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Name = "Docs"
	cfg.Tooltips = []TooltipConfig{{Trigger: "save", Group: "toolbar"}}

	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if cfg.Path() != path || cfg.Dir() != dir {
		t.Errorf("Path()/Dir() = %q/%q", cfg.Path(), cfg.Dir())
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Name != "Docs" || len(loaded.Tooltips) != 1 || loaded.Tooltips[0].Group != "toolbar" {
		t.Errorf("loaded = %+v", loaded)
	}

	if err := New().Save(); err == nil {
		t.Error("Save() without path succeeded")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() mismatch")
	}
}
