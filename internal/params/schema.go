// Package params resolves the generator's parameter set from command-line
// arguments.
//
// The accepted flags are not fixed: templates may demand parameters the base
// schema does not know about. A Schema is an immutable list of declarations;
// Parse binds arguments against one schema, and Acquire repeatedly extends the
// schema with the unrecognized flags and parses again from scratch.
package params

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a declaration binds its value.
type Kind int

const (
	// KindString binds the flag's argument as a string.
	KindString Kind = iota
	// KindSwitch takes no argument and stores Value when present.
	// Several switches may share a key; the last one given wins.
	KindSwitch
	// KindVersion is a positional validated by the version grammar.
	KindVersion
)

// Errors returned while building schemas or parsing arguments.
var (
	ErrConflict     = errors.New("conflicting declaration")
	ErrUnrecognized = errors.New("unrecognized arguments")
	ErrMissingValue = errors.New("flag needs an argument")
	ErrRequired     = errors.New("missing required argument")
)

// Declaration describes one accepted argument.
type Declaration struct {
	// Name is the long flag name without dashes, or the positional's name.
	Name string
	// Shorthand is an optional single-letter alias.
	Shorthand string
	// Key is the parameter key the value binds to. Defaults to Name with
	// dashes replaced by underscores.
	Key string
	Usage string
	Kind  Kind
	// Value is stored by KindSwitch declarations.
	Value any
	// Default is the key's value when no declaration bound to it is given.
	// A nil default leaves the key null.
	Default any

	Positional bool
	Required   bool
	// Dynamic marks declarations discovered from the command line.
	Dynamic bool
}

// BindKey returns the parameter key this declaration binds to.
func (d Declaration) BindKey() string {
	if d.Key != "" {
		return d.Key
	}
	return KeyFor(d.Name)
}

// KeyFor converts a flag name to its parameter key.
func KeyFor(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Schema is an ordered, immutable list of declarations.
type Schema struct {
	decls []Declaration
}

// NewSchema builds a schema, rejecting conflicting declarations.
func NewSchema(decls ...Declaration) (Schema, error) {
	var s Schema
	for _, d := range decls {
		var err error
		if s, err = s.With(d); err != nil {
			return Schema{}, err
		}
	}
	return s, nil
}

// With returns a copy of the schema extended by d. A name or shorthand may
// be declared once; a key may be shared only between switches.
func (s Schema) With(d Declaration) (Schema, error) {
	if d.Name == "" {
		return Schema{}, fmt.Errorf("%w: empty name", ErrConflict)
	}
	if len(d.Shorthand) > 1 {
		return Schema{}, fmt.Errorf("%w: shorthand %q is more than one letter", ErrConflict, d.Shorthand)
	}

	key := d.BindKey()
	for _, existing := range s.decls {
		switch {
		case existing.Name == d.Name:
			return Schema{}, fmt.Errorf("%w: %s is already declared", ErrConflict, display(d))
		case d.Shorthand != "" && existing.Shorthand == d.Shorthand:
			return Schema{}, fmt.Errorf("%w: -%s is already declared by %s", ErrConflict, d.Shorthand, display(existing))
		case existing.BindKey() == key && (existing.Kind != KindSwitch || d.Kind != KindSwitch):
			return Schema{}, fmt.Errorf("%w: %s binds key %q already bound by %s", ErrConflict, display(d), key, display(existing))
		}
	}

	decls := make([]Declaration, len(s.decls), len(s.decls)+1)
	copy(decls, s.decls)
	return Schema{decls: append(decls, d)}, nil
}


// Lookup returns the declaration with the given name.
func (s Schema) Lookup(name string) (Declaration, bool) {
	for _, d := range s.decls {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

func (s Schema) positionals() []Declaration {
	var out []Declaration
	for _, d := range s.decls {
		if d.Positional {
			out = append(out, d)
		}
	}
	return out
}

func display(d Declaration) string {
	if d.Positional {
		return d.Name
	}
	return "--" + d.Name
}

// Base parameter keys.
const (
	KeyVersion         = "version"
	KeyPreviousVersion = "previous_version"
	KeyFormat          = "format"
	KeyDownstream      = "downstream"
	KeyImage           = "image"
	KeyWorkdir         = "workdir"
	KeyOutputDir       = "output_dir"
	KeySkipPull        = "skip_pull"
	KeyConfig          = "config"
	KeyRuntime         = "runtime"
	KeyRuntimeAPI      = "runtime_api"
	KeyVerbose         = "verbose"
	KeyHelp            = "help"
)

// BaseSchema returns the fixed command-line schema.
func BaseSchema() Schema {
	s, err := NewSchema(
		Declaration{Name: KeyVersion, Positional: true, Required: true, Kind: KindVersion,
			Usage: "Version to generate (SemVer), e.g. v1.2.3"},
		Declaration{Name: KeyPreviousVersion, Positional: true, Kind: KindVersion,
			Usage: "Previous version replaced by this one"},
		Declaration{Name: "json", Key: KeyFormat, Kind: KindSwitch, Value: "json",
			Usage: "Output JSON manifests"},
		Declaration{Name: "yaml", Key: KeyFormat, Kind: KindSwitch, Value: "yaml", Default: "yaml",
			Usage: "Output YAML manifests (default)"},
		Declaration{Name: "upstream", Key: KeyDownstream, Kind: KindSwitch, Value: false, Default: false,
			Usage: "Generate with upstream config (default)"},
		Declaration{Name: "downstream", Key: KeyDownstream, Kind: KindSwitch, Value: true,
			Usage: "Generate with downstream config"},
		Declaration{Name: KeyImage,
			Usage: "Image to use in the CSV (default from config)"},
		Declaration{Name: KeyWorkdir, Default: ".",
			Usage: "Work directory holding templates/ and img/"},
		Declaration{Name: "output-dir", Default: "deploy",
			Usage: "Output directory"},
		Declaration{Name: "skip-pull", Kind: KindSwitch, Value: true, Default: false,
			Usage: "Skip pulling the image to resolve its digest"},
		Declaration{Name: KeyConfig,
			Usage: "Generator config file (YAML)"},
		Declaration{Name: KeyRuntime,
			Usage: "Container runtime binary used to pull and inspect (default docker)"},
		Declaration{Name: "runtime-api", Kind: KindSwitch, Value: true, Default: false,
			Usage: "Resolve digests through the Docker Engine API instead of the runtime CLI"},
		Declaration{Name: KeyVerbose, Shorthand: "v", Kind: KindSwitch, Value: true, Default: false,
			Usage: "Verbose output"},
		Declaration{Name: KeyHelp, Shorthand: "h", Kind: KindSwitch, Value: true, Default: false,
			Usage: "Help for csogen"},
	)
	if err != nil {
		panic(err)
	}
	return s
}
