package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/position"
	"github.com/vango-dev/tooltip/pkg/templates"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tooltip.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultTemplates is the default template glob, relative to the
	// configuration file.
	DefaultTemplates = "templates/*.yaml"
)

// Config represents the complete tooltip.json configuration.
type Config struct {
	// Name is the project name, used as the page title.
	Name string `json:"name,omitempty"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Session contains per-connection configuration.
	Session SessionConfig `json:"session,omitempty"`

	// Page describes the document served to browsers.
	Page PageConfig `json:"page,omitempty"`

	// Templates lists where panel templates are loaded from.
	Templates TemplatesConfig `json:"templates,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tooltips declares the tooltips created for every session.
	Tooltips []TooltipConfig `json:"tooltips,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "5s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins restricts WebSocket upgrades. Empty allows same-origin
	// requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// SessionConfig contains per-connection settings.
type SessionConfig struct {
	// QueueSize is the event loop's task buffer.
	QueueSize int `json:"queueSize,omitempty"`

	// PingInterval is how often the server pings idle clients (e.g., "30s").
	PingInterval string `json:"pingInterval,omitempty"`
}

// PageConfig describes the served document.
type PageConfig struct {
	// Body is the path to an HTML fragment used as the document body.
	Body string `json:"body,omitempty"`

	// Stylesheet is the path to a CSS file inlined into the page head.
	Stylesheet string `json:"stylesheet,omitempty"`
}

// TemplatesConfig lists template sources.
type TemplatesConfig struct {
	// Paths are glob patterns of YAML template files.
	Paths []string `json:"paths,omitempty"`

	// S3 loads templates from a bucket when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates templates in an S3-compatible bucket.
type S3Config struct {
	Bucket          string `json:"bucket,omitempty"`
	Prefix          string `json:"prefix,omitempty"`
	Region          string `json:"region,omitempty"`
	Endpoint        string `json:"endpoint,omitempty"`
	AccessKeyID     string `json:"accessKeyID,omitempty"`
	SecretAccessKey string `json:"secretAccessKey,omitempty"`
	UsePathStyle    bool   `json:"usePathStyle,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records tooltip metrics.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metric name prefix.
	Namespace string `json:"namespace,omitempty"`
}

// TooltipConfig declares one tooltip. Empty fields take the tooltip
// package defaults.
type TooltipConfig struct {
	// Trigger is the ID of the trigger element in the page body.
	Trigger string `json:"trigger"`

	Content    any               `json:"content,omitempty"`
	Template   string            `json:"template,omitempty"`
	Activation string            `json:"activation,omitempty"`
	EventDelay string            `json:"eventDelay,omitempty"`
	AutoAttach *bool             `json:"autoAttach,omitempty"`
	ShownClass string            `json:"shownClass,omitempty"`
	Origin     string            `json:"origin,omitempty"`
	Group      string            `json:"group,omitempty"`
	Styles     map[string]string `json:"styles,omitempty"`
	Button     string            `json:"button,omitempty"`
	Label      string            `json:"label,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: "5s",
		},
		Session: SessionConfig{
			QueueSize:    256,
			PingInterval: "30s",
		},
		Templates: TemplatesConfig{
			Paths: []string{DefaultTemplates},
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "tooltip",
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for tooltip.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No tooltip.json found in " + filepath.Dir(path)).
				WithSuggestion("Create tooltip.json or pass --config")
		}
		return nil, errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigLoad).
			WithDetail("Failed to parse tooltip.json: " + err.Error()).
			WithSuggestion("Check that tooltip.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigLoad).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigLoad).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "5s"
	}

	if c.Session.QueueSize == 0 {
		c.Session.QueueSize = 256
	}
	if c.Session.PingInterval == "" {
		c.Session.PingInterval = "30s"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "tooltip"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Session.QueueSize < 0 {
		return errors.New(errors.CodeInvalidConfig).
			WithDetail("session.queueSize must not be negative")
	}
	for field, value := range map[string]string{
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"session.pingInterval":   c.Session.PingInterval,
	} {
		if _, err := parseDuration(value); err != nil {
			return errors.New(errors.CodeInvalidConfig).
				WithDetailf("%s: %v", field, err)
		}
	}

	seen := make(map[string]bool, len(c.Tooltips))
	for i, tc := range c.Tooltips {
		if tc.Trigger == "" {
			return errors.New(errors.CodeInvalidConfig).
				WithDetailf("tooltips[%d]: trigger is required", i)
		}
		if seen[tc.Trigger] {
			return errors.New(errors.CodeInvalidConfig).
				WithDetailf("tooltips[%d]: trigger %q is declared twice", i, tc.Trigger)
		}
		seen[tc.Trigger] = true

		if _, err := tc.Tooltip(); err != nil {
			return errors.New(errors.CodeInvalidConfig).
				WithDetailf("tooltips[%d] (%s)", i, tc.Trigger).
				Wrap(err)
		}
	}
	return nil
}

// Tooltip converts the declaration into a tooltip.Config.
func (tc TooltipConfig) Tooltip() (tooltip.Config, error) {
	cfg := tooltip.DefaultConfig()

	if tc.Content != nil {
		cfg.Content = tc.Content
	}
	if tc.Template != "" {
		cfg.Template = tc.Template
	}
	if tc.Activation != "" {
		a, err := tooltip.ParseActivation(tc.Activation)
		if err != nil {
			return cfg, err
		}
		cfg.Activation = a
	}
	if tc.EventDelay != "" {
		d, err := parseDuration(tc.EventDelay)
		if err != nil {
			return cfg, fmt.Errorf("eventDelay: %w", err)
		}
		cfg.EventDelay = d
	}
	if tc.AutoAttach != nil {
		cfg.AutoAttach = *tc.AutoAttach
	}
	if tc.ShownClass != "" {
		cfg.ShownClass = tc.ShownClass
	}
	if tc.Origin != "" {
		o, err := position.ParseOrigin(tc.Origin)
		if err != nil {
			return cfg, err
		}
		cfg.Origin = o
	}
	if tc.Styles != nil {
		cfg.Styles = tc.Styles
	}
	cfg.Group = tc.Group
	cfg.Button = tc.Button
	cfg.Label = tc.Label

	return cfg, cfg.Validate()
}

// parseDuration accepts Go duration strings and bare millisecond counts.
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		s = strconv.Itoa(ms) + "ms"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %s is negative", s)
	}
	return d, nil
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := parseDuration(c.Server.ShutdownTimeout)
	return d
}

// PingInterval returns the parsed session ping interval.
func (c *Config) PingInterval() time.Duration {
	d, _ := parseDuration(c.Session.PingInterval)
	return d
}

// Address returns the listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// resolve makes path relative to the config file's directory.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// BodyPath returns the absolute path to the page body, or "".
func (c *Config) BodyPath() string {
	return c.resolve(c.Page.Body)
}

// StylesheetPath returns the absolute path to the stylesheet, or "".
func (c *Config) StylesheetPath() string {
	return c.resolve(c.Page.Stylesheet)
}

// TemplateDir returns the directory template globs are relative to.
func (c *Config) TemplateDir() string {
	if dir := c.Dir(); dir != "" {
		return dir
	}
	return "."
}

// S3Options returns the client options for the template bucket.
func (c *Config) S3Options() templates.S3Options {
	s := c.Templates.S3
	return templates.S3Options{
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		UsePathStyle:    s.UsePathStyle,
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing tooltip.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No tooltip.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create tooltip.json at the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
