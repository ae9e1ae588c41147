package docker

import (
	"context"
	"io"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ImageAPI defines the Docker SDK image operations used by APIRuntime.
// This interface enables mocking for unit tests without requiring a running Docker daemon.
type ImageAPI interface {
	// ImagePull starts pulling an image and returns the progress stream.
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)

	// ImageInspect returns detailed information about an image.
	ImageInspect(ctx context.Context, imageID string, inspectOpts ...client.ImageInspectOption) (image.InspectResponse, error)

	// Close closes the client connection.
	Close() error
}

// Verify that the Docker SDK client implements our interface.
var _ ImageAPI = (*client.Client)(nil)
