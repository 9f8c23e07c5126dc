// Package version provides build-time metadata for the rerender binary.
// Version, GitCommit, and BuildDate are injected at compile time via -ldflags.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build-time values injected via -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
	buildDate = "unknown"
)

// Info holds the build metadata for the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the current build information.
func GetInfo() Info {
	return Info{
		Version:   version,
		GitCommit: shortCommit(gitCommit),
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable single-line version string.
func (i Info) String() string {
	return fmt.Sprintf("rerender %s (commit: %s, built: %s, %s %s)",
		i.Version, i.GitCommit, i.BuildDate, i.GoVersion, i.Platform)
}

// JSON returns the version info as indented JSON.
func (i Info) JSON() (string, error) {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling version info: %w", err)
	}

	return string(data), nil
}

// Short returns just the version, or "dev" with the short commit appended
// for development builds.
func (i Info) Short() string {
	if i.Version == "dev" && i.GitCommit != "none" && i.GitCommit != "" {
		return fmt.Sprintf("dev+%s", i.GitCommit)
	}

	return i.Version
}

// Satisfies checks the version against a semver constraint such as
// ">= 1.2, < 2". An empty constraint and development builds always pass.
func (i Info) Satisfies(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	if i.Version == "dev" {
		return nil
	}

	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", i.Version, err)
	}

	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("rerender %s does not satisfy %q: %w", i.Version, constraint, errs[0])
		}

		return fmt.Errorf("rerender %s does not satisfy %q", i.Version, constraint)
	}

	return nil
}

// shortCommit truncates a commit SHA to 7 characters.
func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}

	return commit
}
