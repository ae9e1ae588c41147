package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]any
		want     string
	}{
		{
			name:     "plain substitution",
			template: "name: {{ .name }}",
			data:     map[string]any{"name": "csv"},
			want:     "name: csv",
		},
		{
			name:     "normalize_version filter",
			template: "version: {{ .version | normalize_version }}",
			data:     map[string]any{"version": "v1.2.3"},
			want:     "version: 1.2.3",
		},
		{
			name:     "normalize_version keeps master",
			template: "version: {{ normalize_version .version }}",
			data:     map[string]any{"version": "master"},
			want:     "version: master",
		},
		{
			name:     "sprig function",
			template: `{{ .name | upper }}-{{ default "x" .empty }}`,
			data:     map[string]any{"name": "cso", "empty": ""},
			want:     "CSO-x",
		},
		{
			name:     "optional value guarded",
			template: "{{ if .previous_version }}replaces: op.{{ .previous_version }}{{ end }}",
			data:     map[string]any{"previous_version": nil},
			want:     "",
		},
		{
			name:     "toYaml",
			template: "{{ toYaml .labels }}",
			data:     map[string]any{"labels": map[string]any{"app": "cso"}},
			want:     "app: cso",
		},
		{
			name:     "toJson",
			template: "{{ toJson .labels }}",
			data:     map[string]any{"labels": map[string]any{"app": "cso"}},
			want:     `{"app":"cso"}`,
		},
		{
			name:     "fromYaml",
			template: `{{ (fromYaml "a: b").a }}`,
			data:     map[string]any{},
			want:     "b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTemplate(t, dir, "doc.yaml.tmpl", tt.template)

			got, err := New(dir).Render("doc.yaml.tmpl", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_UndefinedVariable(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "doc.yaml.tmpl", "a: {{ .defined }}\nb: {{ .missing_key }}\n")

	got, err := New(dir).Render("doc.yaml.tmpl", map[string]any{"defined": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefined)
	assert.Contains(t, err.Error(), "missing_key")
	assert.Empty(t, got)
}

func TestRender_Required(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "doc.yaml.tmpl", `{{ required "image is required" .container_image }}`)

	_, err := New(dir).Render("doc.yaml.tmpl", map[string]any{"container_image": ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image is required")
	assert.NotErrorIs(t, err, ErrUndefined)
}

func TestRender_TemplateNotFound(t *testing.T) {
	_, err := New(t.TempDir()).Render("absent.yaml.tmpl", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestRender_ParseError(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "doc.yaml.tmpl", "{{ .unterminated ")

	_, err := New(dir).Render("doc.yaml.tmpl", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse template doc.yaml.tmpl")
}

func TestRender_CurrentDatetime(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "doc.yaml.tmpl", "createdAt: {{ get_current_datetime }}")
	fixed := time.Date(2024, 3, 9, 7, 5, 1, 0, time.Local)

	got, err := New(dir, WithClock(func() time.Time { return fixed })).Render("doc.yaml.tmpl", nil)
	require.NoError(t, err)
	assert.Equal(t, "createdAt: 2024-03-09 07:05:01", got)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "b.secscan.crd.yaml.tmpl", "")
	writeTemplate(t, dir, "a.secscan.crd.yaml.tmpl", "")
	writeTemplate(t, dir, "op.clusterserviceversion.yaml.tmpl", "")
	writeTemplate(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.crd.yaml.tmpl"), 0755))

	got, err := Discover(dir, "*.crd.yaml.tmpl")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.secscan.crd.yaml.tmpl", "b.secscan.crd.yaml.tmpl"}, got)
}

func TestDiscover_MissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), "*")
	assert.Error(t, err)
}
