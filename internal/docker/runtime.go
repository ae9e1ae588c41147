package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/cameronsjo/csogen/internal/ui"
)

// ImageRuntime pulls images and reports their repository digests.
type ImageRuntime interface {
	// Pull fetches ref so its digest is known locally.
	Pull(ctx context.Context, ref string) error

	// RepoDigests returns the repo@digest entries recorded for ref.
	RepoDigests(ctx context.Context, ref string) ([]string, error)

	// Close releases any connection held by the runtime.
	Close() error
}

// CommandRunner runs external commands. Tests substitute a fake.
type CommandRunner interface {
	// Run executes the command and fails on a non-zero exit.
	Run(ctx context.Context, name string, args ...string) error

	// Output executes the command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, output)
	}
	ui.Debug("%s", strings.TrimSpace(string(output)))
	return nil
}

// Output implements CommandRunner.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// CLIRuntime drives a container runtime CLI (docker, podman) that offers
// pull and inspect subcommands.
type CLIRuntime struct {
	binary string
	runner CommandRunner
}

var _ ImageRuntime = (*CLIRuntime)(nil)

// NewCLIRuntime creates a runtime that shells out to binary.
func NewCLIRuntime(binary string) *CLIRuntime {
	return NewCLIRuntimeWithRunner(binary, ExecRunner{})
}

// NewCLIRuntimeWithRunner creates a runtime with a custom command runner.
func NewCLIRuntimeWithRunner(binary string, runner CommandRunner) *CLIRuntime {
	return &CLIRuntime{binary: binary, runner: runner}
}

// inspectEntry is the part of `<runtime> inspect` output we read.
type inspectEntry struct {
	RepoDigests []string `json:"RepoDigests"`
}

// Pull runs `<binary> pull ref`.
func (c *CLIRuntime) Pull(ctx context.Context, ref string) error {
	return c.runner.Run(ctx, c.binary, "pull", ref)
}

// RepoDigests runs `<binary> inspect ref` and reads RepoDigests from the
// first element of the returned JSON array.
func (c *CLIRuntime) RepoDigests(ctx context.Context, ref string) ([]string, error) {
	out, err := c.runner.Output(ctx, c.binary, "inspect", ref)
	if err != nil {
		return nil, err
	}

	var entries []inspectEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("parse %s inspect output: %w", c.binary, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s inspect returned no images for %s", c.binary, ref)
	}
	return entries[0].RepoDigests, nil
}

// Close implements ImageRuntime.
func (c *CLIRuntime) Close() error {
	return nil
}
