package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/csogen/internal/config"
	"github.com/cameronsjo/csogen/internal/docker"
)

// repoRoot holds the shipped templates/ and img/ directories.
const repoRoot = "../.."

const (
	csvName = "container-security-operator.clusterserviceversion.yaml.tmpl"
	crdName = "imagemanifestvulns.secscan.quay.redhat.com.crd.yaml.tmpl"
)

// executeCmd executes the root command with the given args and returns the output.
// This handles proper state reset between test executions.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvRuntime, "")

	buf := new(bytes.Buffer)
	// Important: Set args BEFORE setting output buffers
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

// manifestDir returns where a run with the given output dir and version writes.
func manifestDir(outputDir, version string) string {
	return filepath.Join(outputDir, "manifests", "container-security-operator", version)
}

// newWorkdir creates a workdir with the given CSV and CRD template bodies and
// both logos.
func newWorkdir(t *testing.T, csv, crd string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", csvName), []byte(csv), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", crdName), []byte(crd), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "upstream_logo.png"), []byte("upstream"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "downstream_logo.png"), []byte("downstream"), 0644))
	return dir
}

// readFile reads path relative to dir.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(content)
}

// stubRuntime is an ImageRuntime with canned results.
type stubRuntime struct {
	digests []string
	pullErr error
	pulled  []string
	closed  bool
}

func (s *stubRuntime) Pull(_ context.Context, ref string) error {
	s.pulled = append(s.pulled, ref)
	return s.pullErr
}

func (s *stubRuntime) RepoDigests(context.Context, string) ([]string, error) {
	return s.digests, nil
}

func (s *stubRuntime) Close() error {
	s.closed = true
	return nil
}

// useRuntime replaces the image runtime for the duration of the test.
func useRuntime(t *testing.T, rt docker.ImageRuntime) {
	t.Helper()
	old := newImageRuntime
	newImageRuntime = func(*config.Config, bool) (docker.ImageRuntime, error) {
		return rt, nil
	}
	t.Cleanup(func() { newImageRuntime = old })
}
