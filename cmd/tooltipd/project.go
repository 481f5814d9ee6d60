package main

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/vango-dev/tooltip/internal/config"
	"github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/host"
	"github.com/vango-dev/tooltip/pkg/templates"
)

// loadConfig reads tooltip.json from --config or the nearest parent
// directory, and validates it.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// source records where a template came from.
type source struct {
	name   string
	origin string
}

// loadTemplates builds the template store from the configured globs and
// bucket. Later sources override earlier ones.
func loadTemplates(ctx context.Context, cfg *config.Config) (*templates.Store, []source, error) {
	store := templates.New()
	var sources []source
	for _, name := range store.Names() {
		sources = append(sources, source{name: name, origin: "built-in"})
	}

	fsys := os.DirFS(cfg.TemplateDir())
	for _, pattern := range cfg.Templates.Paths {
		names, err := store.LoadFS(fsys, pattern)
		if err != nil {
			return nil, nil, err
		}
		for _, name := range names {
			sources = append(sources, source{name: name, origin: pattern})
		}
	}

	if s3cfg := cfg.Templates.S3; s3cfg.Bucket != "" {
		client := templates.NewS3Client(cfg.S3Options())
		names, err := store.LoadS3(ctx, client, s3cfg.Bucket, s3cfg.Prefix)
		if err != nil {
			return nil, nil, err
		}
		origin := "s3://" + s3cfg.Bucket + "/" + s3cfg.Prefix
		for _, name := range names {
			sources = append(sources, source{name: name, origin: origin})
		}
	}

	return store, dedupe(sources), nil
}

// dedupe keeps the last source of each name, sorted by name.
func dedupe(sources []source) []source {
	last := make(map[string]source, len(sources))
	for _, s := range sources {
		last[s.name] = s
	}
	out := make([]source, 0, len(last))
	for _, s := range last {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// hostConfig assembles the server configuration from tooltip.json.
func hostConfig(ctx context.Context, cfg *config.Config) (host.Config, error) {
	store, _, err := loadTemplates(ctx, cfg)
	if err != nil {
		return host.Config{}, err
	}

	body, err := readOptional(cfg.BodyPath())
	if err != nil {
		return host.Config{}, err
	}
	if body == "" {
		body = demoBody(cfg)
	}
	stylesheet, err := readOptional(cfg.StylesheetPath())
	if err != nil {
		return host.Config{}, err
	}

	decls := make([]host.Declaration, 0, len(cfg.Tooltips))
	for _, tc := range cfg.Tooltips {
		tcfg, err := tc.Tooltip()
		if err != nil {
			return host.Config{}, errors.New(errors.CodeInvalidConfig).
				WithDetailf("tooltip %q", tc.Trigger).
				Wrap(err)
		}
		decls = append(decls, host.Declaration{Trigger: tc.Trigger, Config: tcfg})
	}

	title := cfg.Name
	if title == "" {
		title = "tooltipd"
	}

	return host.Config{
		Title:            title,
		Body:             body,
		Stylesheet:       stylesheet,
		Templates:        store,
		Tooltips:         decls,
		QueueSize:        cfg.Session.QueueSize,
		PingInterval:     cfg.PingInterval(),
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		MetricsNamespace: cfg.Metrics.Namespace,
	}, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New(errors.CodeConfigLoad).
			WithDetailf("reading %s", path).
			Wrap(err)
	}
	return string(data), nil
}

// demoBody renders one button per declared trigger, for configurations
// without a page body.
func demoBody(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("<main>\n")
	for _, tc := range cfg.Tooltips {
		id := html.EscapeString(tc.Trigger)
		fmt.Fprintf(&b, "  <p><button type=\"button\" id=\"%s\">%s</button></p>\n", id, id)
	}
	b.WriteString("</main>\n")
	return b.String()
}
