package docker

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"

	"github.com/cameronsjo/csogen/internal/ui"
)

// APIRuntime talks to the Docker Engine API instead of a runtime CLI.
type APIRuntime struct {
	api ImageAPI
}

var _ ImageRuntime = (*APIRuntime)(nil)

// NewAPIRuntime connects to the daemon configured by the DOCKER_* environment.
func NewAPIRuntime() (*APIRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	return &APIRuntime{api: cli}, nil
}

// NewAPIRuntimeWithAPI creates a runtime with a custom API implementation.
// This is primarily used for testing with mock implementations.
func NewAPIRuntimeWithAPI(api ImageAPI) *APIRuntime {
	return &APIRuntime{api: api}
}

// Pull pulls ref and waits for the progress stream to finish. Errors
// reported inside the stream fail the pull.
func (c *APIRuntime) Pull(ctx context.Context, ref string) error {
	reader, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image: %w", err)
	}
	defer reader.Close()

	var out io.Writer = io.Discard
	if ui.Verbose() {
		out = os.Stdout
	}
	if err := jsonmessage.DisplayJSONMessagesStream(reader, out, 0, false, nil); err != nil {
		return fmt.Errorf("pull image: %w", err)
	}
	return nil
}

// RepoDigests returns the repo@digest entries the daemon records for ref.
func (c *APIRuntime) RepoDigests(ctx context.Context, ref string) ([]string, error) {
	inspect, err := c.api.ImageInspect(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}
	return inspect.RepoDigests, nil
}

// Close closes the Docker client connection.
func (c *APIRuntime) Close() error {
	if c.api != nil {
		return c.api.Close()
	}
	return nil
}
