package templates

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/vango-dev/tooltip/internal/errors"
)

// Names of the templates every store starts with.
const (
	Tooltip = "tooltip"
	Button  = "button"
)

// ErrNotFound matches any error returned for an unregistered template name.
var ErrNotFound = errors.New(errors.CodeTemplateNotFound)

var placeholder = regexp.MustCompile(`\\?\{([^{}]+)\}`)

var defaults = map[string][]string{
	Tooltip: {
		`<div class="tooltip-content">`,
		`{content}`,
		`</div>`,
	},
	Button: {
		`<button type="button" class="tooltip-button">`,
		`{label}`,
		`</button>`,
	},
}

// Store holds named templates. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	templates map[string]string
}

// New returns a store holding the default "tooltip" and "button" templates.
func New() *Store {
	s := &Store{templates: make(map[string]string, len(defaults))}
	for name, lines := range defaults {
		s.RegisterLines(name, lines...)
	}
	return s
}

// Register stores tmpl under name, replacing any previous template.
func (s *Store) Register(name, tmpl string) {
	s.mu.Lock()
	s.templates[name] = tmpl
	s.mu.Unlock()
}

// RegisterLines stores the lines joined without a separator.
func (s *Store) RegisterLines(name string, lines ...string) {
	s.Register(name, strings.Join(lines, ""))
}

// Lookup returns the raw template text.
func (s *Store) Lookup(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tmpl, ok := s.templates[name]
	return tmpl, ok
}

// Names returns the registered names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Render substitutes vars into the named template.
func (s *Store) Render(name string, vars map[string]any) (string, error) {
	tmpl, ok := s.Lookup(name)
	if !ok {
		return "", errors.New(errors.CodeTemplateNotFound).
			WithDetailf("no template named %q is registered", name).
			WithSuggestion("Register the template before constructing a tooltip that uses it")
	}
	return Substitute(tmpl, vars), nil
}

// Substitute replaces {key} placeholders in tmpl with fmt.Sprint(vars[key]).
func Substitute(tmpl string, vars map[string]any) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if m[0] == '\\' {
			return m[1:]
		}
		v, ok := vars[m[1:len(m)-1]]
		if !ok {
			return m
		}
		return fmt.Sprint(v)
	})
}
