package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// Common test errors.
var (
	errMockPull    = errors.New("mock: image pull failed")
	errMockInspect = errors.New("mock: image inspect failed")
	errMockExec    = errors.New("mock: exit status 1")
)

// MockImageAPI is a mock implementation of ImageAPI for testing.
type MockImageAPI struct {
	// Function overrides for each method
	ImagePullFunc    func(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	ImageInspectFunc func(ctx context.Context, imageID string) (image.InspectResponse, error)
	CloseFunc        func() error

	// Call tracking
	ImagePullCalls    int
	ImageInspectCalls int
	CloseCalls        int
}

// NewMockImageAPI creates a new mock with default no-op implementations.
func NewMockImageAPI() *MockImageAPI {
	return &MockImageAPI{}
}

// ImagePull implements ImageAPI.
func (m *MockImageAPI) ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error) {
	m.ImagePullCalls++
	if m.ImagePullFunc != nil {
		return m.ImagePullFunc(ctx, refStr, options)
	}
	return io.NopCloser(strings.NewReader(`{"status":"Status: Image is up to date"}` + "\n")), nil
}

// ImageInspect implements ImageAPI.
func (m *MockImageAPI) ImageInspect(ctx context.Context, imageID string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	m.ImageInspectCalls++
	if m.ImageInspectFunc != nil {
		return m.ImageInspectFunc(ctx, imageID)
	}
	return image.InspectResponse{}, nil
}

// Close implements ImageAPI.
func (m *MockImageAPI) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// fakeCall records one invocation of a fakeRunner.
type fakeCall struct {
	Name string
	Args []string
}

// fakeRunner is a CommandRunner that returns canned results.
type fakeRunner struct {
	RunErr    error
	Out       []byte
	OutputErr error

	Calls []fakeCall
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.Calls = append(f.Calls, fakeCall{Name: name, Args: args})
	return f.RunErr
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.Calls = append(f.Calls, fakeCall{Name: name, Args: args})
	return f.Out, f.OutputErr
}

// fakeRuntime is an ImageRuntime with canned results.
type fakeRuntime struct {
	PullErr     error
	Digests     []string
	InspectErr  error
	PulledRefs  []string
	InspectRefs []string
}

func (f *fakeRuntime) Pull(_ context.Context, ref string) error {
	f.PulledRefs = append(f.PulledRefs, ref)
	return f.PullErr
}

func (f *fakeRuntime) RepoDigests(_ context.Context, ref string) ([]string, error) {
	f.InspectRefs = append(f.InspectRefs, ref)
	return f.Digests, f.InspectErr
}

func (f *fakeRuntime) Close() error { return nil }

// Helper functions for creating test data

const (
	testDigest  = "sha256:" + "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	otherDigest = "sha256:" + "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
)

// inspectJSON renders `docker inspect` style output with the given RepoDigests.
func inspectJSON(repoDigests ...string) []byte {
	quoted := make([]string, len(repoDigests))
	for i, rd := range repoDigests {
		quoted[i] = fmt.Sprintf("%q", rd)
	}
	return []byte(fmt.Sprintf(`[{"Id":"sha256:abc","RepoDigests":[%s]}]`, strings.Join(quoted, ",")))
}
