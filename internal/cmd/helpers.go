package cmd

import (
	"fmt"

	"github.com/cameronsjo/csogen/internal/config"
	"github.com/cameronsjo/csogen/internal/docker"
	"github.com/cameronsjo/csogen/internal/preflight"
)

// newImageRuntime builds the runtime used to resolve digests. Tests replace it.
var newImageRuntime = func(cfg *config.Config, useAPI bool) (docker.ImageRuntime, error) {
	if useAPI {
		rt, err := docker.NewAPIRuntime()
		if err != nil {
			return nil, err
		}
		return rt, nil
	}
	if err := preflight.CheckRuntime(cfg.Runtime); err != nil {
		return nil, err
	}
	return docker.NewCLIRuntime(cfg.Runtime), nil
}

// withImageRuntime executes a function with an image runtime, handling connection and cleanup.
func withImageRuntime(cfg *config.Config, useAPI bool, fn func(docker.ImageRuntime) error) error {
	rt, err := newImageRuntime(cfg, useAPI)
	if err != nil {
		return fmt.Errorf("connect to container runtime: %w", err)
	}
	defer rt.Close()

	return fn(rt)
}
