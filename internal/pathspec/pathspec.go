// Package pathspec resolves configured note root specifications into
// concrete directories. A specification is either a literal path, a list
// of paths, or a named call drawn from a small allow-list of evaluators.
package pathspec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rmarchant/nv/internal/pathutil"
)

// Kind discriminates the specification variants.
type Kind int

const (
	KindLiteral Kind = iota
	KindList
	KindCall
)

// Spec is one configured root entry. Exactly one variant is populated
// depending on Kind.
type Spec struct {
	Kind   Kind
	Value  string
	Values []string
	Call   string
	Args   []string
}

// Literal constructs a literal path spec.
func Literal(path string) Spec {
	return Spec{Kind: KindLiteral, Value: path}
}

// List constructs a spec expanding to several paths.
func List(paths ...string) Spec {
	return Spec{Kind: KindList, Values: paths}
}

// Call constructs a deferred spec evaluated by a named resolver.
func Call(name string, args ...string) Spec {
	return Spec{Kind: KindCall, Call: name, Args: args}
}

// ConfigError reports a malformed root specification. Configuration bugs
// are surfaced to the caller rather than silently dropped.
type ConfigError struct {
	Spec   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid root specification %s: %s", e.Spec, e.Reason)
}

// evaluators is the closed set of named calls a spec may invoke. Each
// returns either a string or a list of strings; anything else is a
// configuration bug caught during resolution.
var evaluators = map[string]func(args []string) (any, error){
	"home": func(args []string) (any, error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		return filepath.Join(append([]string{home}, args...)...), nil
	},
	"env": func(args []string) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("env takes exactly one argument, got %d", len(args))
		}
		return os.Getenv(args[0]), nil
	},
	"join": func(args []string) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("join requires at least one argument")
		}
		return filepath.Join(args...), nil
	},
	"subdirs": func(args []string) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("subdirs takes exactly one argument, got %d", len(args))
		}
		base := pathutil.NormalizePath(args[0])
		entries, err := os.ReadDir(base)
		if err != nil {
			return nil, err
		}
		dirs := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				dirs = append(dirs, filepath.Join(base, entry.Name()))
			}
		}
		sort.Strings(dirs)
		return dirs, nil
	},
}

// Resolve evaluates the ordered specs into an ordered list of directory
// paths. Duplicates are permitted; existence is not checked here because
// evaluation may be expensive and FilterExisting covers that concern
// separately.
func Resolve(specs []Spec) ([]string, error) {
	resolved := make([]string, 0, len(specs))
	for _, spec := range specs {
		paths, err := spec.resolve()
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, paths...)
	}
	return resolved, nil
}

func (s Spec) resolve() ([]string, error) {
	switch s.Kind {
	case KindLiteral:
		path, err := expandHome(s.Value)
		if err != nil {
			return nil, &ConfigError{Spec: s.describe(), Reason: err.Error()}
		}
		return []string{pathutil.NormalizePath(path)}, nil

	case KindList:
		paths := make([]string, 0, len(s.Values))
		for _, v := range s.Values {
			path, err := expandHome(v)
			if err != nil {
				return nil, &ConfigError{Spec: s.describe(), Reason: err.Error()}
			}
			paths = append(paths, pathutil.NormalizePath(path))
		}
		return paths, nil

	case KindCall:
		eval, ok := evaluators[s.Call]
		if !ok {
			return nil, &ConfigError{Spec: s.describe(), Reason: fmt.Sprintf("unknown call %q", s.Call)}
		}
		result, err := eval(s.Args)
		if err != nil {
			return nil, &ConfigError{Spec: s.describe(), Reason: err.Error()}
		}
		switch v := result.(type) {
		case string:
			return []string{pathutil.NormalizePath(v)}, nil
		case []string:
			paths := make([]string, 0, len(v))
			for _, p := range v {
				paths = append(paths, pathutil.NormalizePath(p))
			}
			return paths, nil
		default:
			return nil, &ConfigError{
				Spec:   s.describe(),
				Reason: fmt.Sprintf("call %q evaluated to %T, want string or list of strings", s.Call, result),
			}
		}

	default:
		return nil, &ConfigError{Spec: s.describe(), Reason: "unrecognized spec kind"}
	}
}

// expandHome rewrites a leading ~ to the user's home directory so a
// literal like "~/notes" resolves the way shells lead users to expect.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (s Spec) describe() string {
	switch s.Kind {
	case KindLiteral:
		return fmt.Sprintf("%q", s.Value)
	case KindList:
		return fmt.Sprintf("[%s]", strings.Join(s.Values, ", "))
	case KindCall:
		return fmt.Sprintf("%s(%s)", s.Call, strings.Join(s.Args, ", "))
	default:
		return "<unknown>"
	}
}

// FilterExisting drops any path that is not a readable, existing
// directory, preserving order. Missing roots are not an error.
func FilterExisting(paths []string) []string {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.ReadDir(p); err != nil {
			continue
		}
		existing = append(existing, p)
	}
	return existing
}

// UnmarshalYAML accepts the three config forms of a root entry:
//
//	roots:
//	  - ~/notes                       # literal
//	  - [/srv/wiki, /srv/journal]     # list
//	  - call: subdirs                 # deferred call
//	    args: [/srv/vaults]
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var path string
		if err := value.Decode(&path); err != nil {
			return err
		}
		*s = Literal(path)
		return nil

	case yaml.SequenceNode:
		var paths []string
		if err := value.Decode(&paths); err != nil {
			return err
		}
		*s = List(paths...)
		return nil

	case yaml.MappingNode:
		var raw struct {
			Call string   `yaml:"call"`
			Args []string `yaml:"args"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw.Call == "" {
			return &ConfigError{Spec: "<mapping>", Reason: "mapping form requires a call name"}
		}
		*s = Call(raw.Call, raw.Args...)
		return nil

	default:
		return &ConfigError{Spec: "<node>", Reason: "unsupported yaml node for root specification"}
	}
}

// MarshalYAML emits the same form UnmarshalYAML accepts.
func (s Spec) MarshalYAML() (any, error) {
	switch s.Kind {
	case KindLiteral:
		return s.Value, nil
	case KindList:
		return s.Values, nil
	case KindCall:
		return map[string]any{"call": s.Call, "args": s.Args}, nil
	default:
		return nil, &ConfigError{Spec: s.describe(), Reason: "unrecognized spec kind"}
	}
}
