// Package version validates and normalizes operator release versions.
//
// A release version is either a v-prefixed semantic version
// (v1.2.3, v1.2.3-rc.1+build.5) or the literal sentinel "master".
package version

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Master is the sentinel version used for builds from the main branch.
const Master = "master"

// ErrInvalidVersion indicates a value matches neither the semver grammar nor the sentinel.
var ErrInvalidVersion = errors.New("invalid version")

// semverPattern is semver 2.0 with a mandatory leading v.
var semverPattern = regexp.MustCompile(`^v(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(-(0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(\.(0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*)?` +
	`(\+[0-9a-zA-Z-]+(\.[0-9a-zA-Z-]+)*)?$`)

// Validate checks raw against the version grammar and returns its canonical
// form. A value missing the leading v is accepted as if it had one.
func Validate(raw string) (string, error) {
	if raw == Master {
		return raw, nil
	}
	if semverPattern.MatchString(raw) {
		return raw, nil
	}
	if semverPattern.MatchString("v" + raw) {
		return "v" + raw, nil
	}
	return "", fmt.Errorf("%w: %q (expected vMAJOR.MINOR.PATCH or %q)", ErrInvalidVersion, raw, Master)
}

// Normalize strips the leading v from a semantic version. Any other value,
// including the sentinel, is returned unchanged.
func Normalize(v string) string {
	if semverPattern.MatchString(v) {
		return v[1:]
	}
	return v
}

// IsMaster reports whether v is the main-branch sentinel.
func IsMaster(v string) bool {
	return v == Master
}

// Parse returns the semantic version behind v.
func Parse(v string) (*semver.Version, error) {
	canonical, err := Validate(v)
	if err != nil {
		return nil, err
	}
	if IsMaster(canonical) {
		return nil, fmt.Errorf("%w: %q has no semantic version", ErrInvalidVersion, v)
	}
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(canonical, "v"))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", v, err)
	}
	return sv, nil
}

// CheckUpgrade reports whether previous sorts strictly before current, the
// usual shape of a replaces chain. Build metadata does not affect ordering.
// The check is skipped when either side is the sentinel or previous is empty.
func CheckUpgrade(current, previous string) error {
	if previous == "" || IsMaster(current) || IsMaster(previous) {
		return nil
	}

	cur, err := Parse(current)
	if err != nil {
		return err
	}
	prev, err := Parse(previous)
	if err != nil {
		return err
	}

	if !prev.LessThan(cur) {
		return fmt.Errorf("previous version %s is not lower than %s", previous, current)
	}
	return nil
}
