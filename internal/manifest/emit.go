package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	kyaml "sigs.k8s.io/yaml"

	"github.com/cameronsjo/csogen/internal/fileutil"
	"github.com/cameronsjo/csogen/internal/ui"
)

// Emitter writes documents into one manifest directory.
type Emitter struct {
	dir string
}

// NewEmitter creates an emitter targeting dir.
func NewEmitter(dir string) *Emitter {
	return &Emitter{dir: dir}
}

// Write writes docs in the given format and returns the paths written, in
// document order. Existing files are overwritten.
func (e *Emitter) Write(docs []Document, format Format) ([]string, error) {
	type target struct {
		path    string
		content []byte
	}

	targets := make([]target, 0, len(docs))
	for _, doc := range docs {
		content := []byte(doc.Content)
		name := doc.Name

		if format == FormatJSON {
			converted, err := kyaml.YAMLToJSON(content)
			if err != nil {
				return nil, fmt.Errorf("convert %s to json: %w", doc.Name, err)
			}
			content = converted
			name = jsonName(name)
		}

		targets = append(targets, target{path: filepath.Join(e.dir, name), content: content})
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	written := make([]string, 0, len(targets))
	for _, t := range targets {
		if err := fileutil.WriteFile(t.path, t.content, 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", t.path, err)
		}
		ui.Debug("Wrote %s", t.path)
		written = append(written, t.path)
	}

	return written, nil
}
