// Package render executes manifest templates with strict undefined-variable
// semantics.
//
// Templates are Go text/template files carrying the sprig function library
// plus a few manifest helpers. Referencing a key that is absent from the
// parameter set aborts rendering with ErrUndefined; no partial output is
// ever returned.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

var (
	// ErrUndefined indicates a template referenced a key missing from its data.
	ErrUndefined = errors.New("undefined template variable")

	// ErrTemplateNotFound indicates the named template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
)

// missingKeyPattern extracts the key name from text/template's missingkey=error message.
var missingKeyPattern = regexp.MustCompile(`map has no entry for key "([^"]*)"`)

// Renderer loads templates from a root directory and executes them.
type Renderer struct {
	root  string
	funcs template.FuncMap
	now   func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock sets the time source behind get_current_datetime.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// New creates a renderer rooted at root.
func New(root string, opts ...Option) *Renderer {
	r := &Renderer{
		root:  root,
		funcs: sprig.TxtFuncMap(),
		now:   time.Now,
	}
	for name, fn := range FuncMap() {
		r.funcs[name] = fn
	}
	r.funcs["get_current_datetime"] = func() string {
		return r.now().Format(DateTimeLayout)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the template directory.
func (r *Renderer) Root() string {
	return r.root
}

// Render executes the template called name with data. The template is
// parsed fresh on every call.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	path := filepath.Join(r.root, name)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}

	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(r.funcs).
		Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if m := missingKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			return "", fmt.Errorf("render %s: %w %q: %w", name, ErrUndefined, m[1], err)
		}
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
