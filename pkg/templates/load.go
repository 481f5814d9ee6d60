package templates

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/tooltip/internal/errors"
)

// Source is one template in a YAML file: either a scalar string or a list of
// lines that are joined without a separator.
type Source string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Source) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = Source(value.Value)
		return nil
	case yaml.SequenceNode:
		var lines []string
		if err := value.Decode(&lines); err != nil {
			return err
		}
		*s = Source(strings.Join(lines, ""))
		return nil
	}
	return fmt.Errorf("line %d: template must be a string or a list of strings", value.Line)
}

// LoadFS registers every template defined in the YAML files of fsys that
// match pattern. Patterns may use ** to match any number of directories.
// Each file is a mapping from template name to
// template source. It returns the names it registered.
func (s *Store) LoadFS(fsys fs.FS, pattern string) ([]string, error) {
	files, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, errors.New(errors.CodeTemplateLoad).Wrap(err)
	}

	var names []string
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return names, errors.New(errors.CodeTemplateLoad).
				WithDetailf("reading %s", file).
				Wrap(err)
		}

		var doc map[string]Source
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return names, errors.New(errors.CodeTemplateLoad).
				WithDetailf("decoding %s", path.Base(file)).
				Wrap(err)
		}
		for name, src := range doc {
			s.Register(name, string(src))
			names = append(names, name)
		}
	}
	return names, nil
}
