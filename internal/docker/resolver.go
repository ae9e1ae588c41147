package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/cameronsjo/csogen/internal/ui"
)

// ErrResolve wraps every failure to resolve an image digest.
var ErrResolve = errors.New("resolve image digest")

// ResolvedImage is a repository pinned to an immutable content digest.
type ResolvedImage struct {
	Repository string
	Digest     string
}

// String returns repo@digest.
func (r ResolvedImage) String() string {
	return r.Repository + "@" + r.Digest
}

// Resolver turns image references into ResolvedImages using an ImageRuntime.
type Resolver struct {
	runtime ImageRuntime
	timeout time.Duration
}

// NewResolver creates a resolver. Each runtime call is bounded by timeout;
// a zero timeout means no bound.
func NewResolver(runtime ImageRuntime, timeout time.Duration) *Resolver {
	return &Resolver{runtime: runtime, timeout: timeout}
}

// Resolve pulls imageRef, inspects it, and returns the sha256 digest recorded
// for its repository. Digest references are pulled and inspected by digest.
// Failures are logged with the image context and wrap ErrResolve.
func (r *Resolver) Resolve(ctx context.Context, imageRef string) (*ResolvedImage, error) {
	ref, err := ParseReference(imageRef)
	if err != nil {
		ui.Error("Error parsing image reference %s - %v", imageRef, err)
		return nil, fmt.Errorf("%w: %w", ErrResolve, err)
	}
	target := ref.String()

	ui.Debug("Pulling %s", target)
	if err := r.withTimeout(ctx, func(ctx context.Context) error {
		return r.runtime.Pull(ctx, target)
	}); err != nil {
		ui.Error("Error pulling image %s - %v", target, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrResolve, target, err)
	}

	var repoDigests []string
	if err := r.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		repoDigests, err = r.runtime.RepoDigests(ctx, target)
		return err
	}); err != nil {
		ui.Error("Error inspecting image %s - %v", target, err)
		return nil, fmt.Errorf("%w: %s: %w", ErrResolve, target, err)
	}

	var matching []string
	for _, rd := range repoDigests {
		if repoOf(rd) == ref.Repository {
			matching = append(matching, rd)
		}
	}
	if len(matching) == 0 {
		ui.Error("Could not find the manifest digest for the given image %s", target)
		return nil, fmt.Errorf("%w: %s: no digest for repository %s in %v", ErrResolve, target, ref.Repository, repoDigests)
	}

	raw := matching[0][strings.LastIndex(matching[0], "@")+1:]
	d, err := digest.Parse(raw)
	if err == nil && d.Algorithm() != digest.SHA256 {
		err = fmt.Errorf("unsupported algorithm %s", d.Algorithm())
	}
	if err != nil {
		ui.Error("Unknown manifest digest format for %s -> %s", target, raw)
		return nil, fmt.Errorf("%w: %s: malformed digest %q: %w", ErrResolve, target, raw, err)
	}

	ui.Debug("Resolved %s to %s", target, d)
	return &ResolvedImage{Repository: ref.Repository, Digest: d.String()}, nil
}

func (r *Resolver) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	if r.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return fn(ctx)
}

// repoOf returns the part of a repo@digest entry before the last @.
func repoOf(repoDigest string) string {
	idx := strings.LastIndex(repoDigest, "@")
	if idx < 0 {
		return ""
	}
	return repoDigest[:idx]
}
