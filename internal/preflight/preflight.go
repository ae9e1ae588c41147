// Package preflight provides pre-flight validation for the container runtime binary.
package preflight

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrMissingBinary indicates a required binary is not on PATH.
var ErrMissingBinary = errors.New("required binary not found")

// BinaryCheck represents a known runtime binary and how to install it.
type BinaryCheck struct {
	Name        string
	InstallHint string // e.g., "https://..."
}

// knownRuntimes lists the container runtimes offering pull and inspect.
var knownRuntimes = []BinaryCheck{
	{
		Name:        "docker",
		InstallHint: "Install Docker: https://docs.docker.com/get-docker/",
	},
	{
		Name:        "podman",
		InstallHint: "Install Podman: https://podman.io/docs/installation",
	},
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CheckRuntime verifies the runtime binary is available in PATH. The error
// carries an install hint for known runtimes.
func CheckRuntime(name string) error {
	if IsBinaryAvailable(name) {
		return nil
	}
	if check, ok := Lookup(name); ok {
		return fmt.Errorf("%w: %s (%s)", ErrMissingBinary, name, check.InstallHint)
	}
	return fmt.Errorf("%w: %s", ErrMissingBinary, name)
}

// IsBinaryAvailable checks if a specific binary is available in PATH.
func IsBinaryAvailable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// Lookup returns the known runtime called name.
func Lookup(name string) (BinaryCheck, bool) {
	for _, bin := range knownRuntimes {
		if bin.Name == name {
			return bin, true
		}
	}
	return BinaryCheck{}, false
}
