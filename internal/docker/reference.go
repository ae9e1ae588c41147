package docker

import (
	"errors"
	"fmt"

	"github.com/distribution/reference"
)

// ErrInvalidReference indicates an image reference without exactly one of tag or digest.
var ErrInvalidReference = errors.New("invalid image reference")

// Reference is an image reference pinned by either a tag or a digest.
type Reference struct {
	Repository string
	Tag        string
	Digest     string
}

// ParseReference splits ref into repository and tag or digest. The
// repository is kept as written: no default registry or library/ namespace
// is added, so it can be matched against the runtime's RepoDigests.
func ParseReference(ref string) (Reference, error) {
	parsed, err := reference.Parse(ref)
	if err != nil {
		return Reference{}, fmt.Errorf("%w %q: %w", ErrInvalidReference, ref, err)
	}

	named, ok := parsed.(reference.Named)
	if !ok {
		return Reference{}, fmt.Errorf("%w %q: missing repository", ErrInvalidReference, ref)
	}

	out := Reference{Repository: named.Name()}
	if tagged, ok := parsed.(reference.Tagged); ok {
		out.Tag = tagged.Tag()
	}
	if digested, ok := parsed.(reference.Digested); ok {
		out.Digest = digested.Digest().String()
	}

	switch {
	case out.Tag == "" && out.Digest == "":
		return Reference{}, fmt.Errorf("%w %q: missing :tag or @digest", ErrInvalidReference, ref)
	case out.Tag != "" && out.Digest != "":
		return Reference{}, fmt.Errorf("%w %q: both tag and digest given", ErrInvalidReference, ref)
	}
	return out, nil
}

// String returns repo:tag or repo@digest.
func (r Reference) String() string {
	if r.Digest != "" {
		return r.Repository + "@" + r.Digest
	}
	return r.Repository + ":" + r.Tag
}
