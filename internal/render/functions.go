package render

import (
	"encoding/json"
	"errors"
	"strings"
	"text/template"

	kyaml "sigs.k8s.io/yaml"

	"github.com/cameronsjo/csogen/internal/version"
)

// DateTimeLayout is the format produced by get_current_datetime.
const DateTimeLayout = "2006-01-02 15:04:05"

// FuncMap returns the manifest helpers layered on top of sprig.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"normalize_version": version.Normalize,
		"toYaml":            toYaml,
		"fromYaml":          fromYaml,
		"toJson":            toJson,
		"required":          required,
	}
}

func toYaml(data any) (string, error) {
	raw, err := kyaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(raw), "\n"), nil
}

func fromYaml(data string) (map[string]any, error) {
	var res map[string]any
	if err := kyaml.Unmarshal([]byte(data), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func toJson(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func required(warn string, data any) (any, error) {
	if data == nil {
		return data, errors.New(warn)
	} else if s, ok := data.(string); ok {
		if s == "" {
			return data, errors.New(warn)
		}
	}
	return data, nil
}
