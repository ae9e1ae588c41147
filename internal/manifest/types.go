package manifest

import "fmt"

// Format selects the on-disk encoding of generated manifests.
type Format string

const (
	// FormatYAML writes documents exactly as rendered.
	FormatYAML Format = "yaml"

	// FormatJSON converts each rendered document to JSON.
	FormatJSON Format = "json"
)

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Document is one rendered manifest awaiting output.
type Document struct {
	// Template is the template the content was rendered from.
	Template string

	// Name is the output file name within the manifest directory.
	Name string

	// Content is the rendered YAML text.
	Content string
}
