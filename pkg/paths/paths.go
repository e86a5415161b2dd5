// Package paths centralizes path handling: base working-directory
// selection for the containerized/CI execution modes, target resolution,
// and XDG locations for cache, state, and user settings.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/sgrep/pkg/errors"
)

// Environment variable names, read once at the CLI edge and carried in
// ExecutionContext. Nothing below cmd/ reads the environment.
const (
	// EnvInDocker marks containerized execution
	EnvInDocker = "SGREP_IN_DOCKER"

	// EnvGithubWorkspace marks a GitHub Actions run
	EnvGithubWorkspace = "GITHUB_WORKSPACE"
)

// RepoHomeDocker is the fixed mount point used for relative paths when
// running containerized outside CI.
const RepoHomeDocker = "/home/repo/"

// appDirName is the subdirectory used under the XDG base dirs
const appDirName = "sgrep"

// ExecutionContext carries the environment-derived flags that influence
// base-path selection. It is built by the caller (the CLI) so the
// pipeline itself stays free of ambient environment reads.
type ExecutionContext struct {
	InDocker  bool
	InCI      bool
	Precommit bool
}

// ContextFromEnv builds an ExecutionContext from the process environment.
// Only the CLI should call this.
func ContextFromEnv(precommit bool) ExecutionContext {
	_, inDocker := os.LookupEnv(EnvInDocker)
	_, inCI := os.LookupEnv(EnvGithubWorkspace)
	return ExecutionContext{
		InDocker:  inDocker,
		InCI:      inCI,
		Precommit: precommit,
	}
}

// Paths resolves locations for one resolution run.
type Paths struct {
	base string
}

// New selects the base working directory for ctx. Containerized runs
// outside CI and precommit resolve relative paths against the fixed
// repo mount; its absence in that situation is fatal because the user
// forgot the -v bind mount.
func New(ctx ExecutionContext) (*Paths, error) {
	if ctx.InDocker && !ctx.InCI && !ctx.Precommit {
		if _, err := os.Stat(RepoHomeDocker); err != nil {
			return nil, errors.Newf(errors.ErrDockerMount,
				"you are running sgrep in docker, but you forgot to mount the current directory in Docker: missing: -v \"${PWD}:%s\"",
				RepoHomeDocker)
		}
		return &Paths{base: RepoHomeDocker}, nil
	}
	return &Paths{base: "."}, nil
}

// Base returns the base working directory
func (p *Paths) Base() string {
	return p.base
}

// IsDockerBase reports whether relative paths resolve against the fixed
// container mount rather than the process working directory.
func (p *Paths) IsDockerBase() bool {
	return p.base == RepoHomeDocker
}

// Join resolves loc against the base directory unless it is absolute.
func (p *Paths) Join(loc string) string {
	if filepath.IsAbs(loc) {
		return loc
	}
	return filepath.Join(p.base, loc)
}

// ResolveTargets maps the caller's scan targets onto the base directory.
func (p *Paths) ResolveTargets(targets []string) []string {
	resolved := make([]string, 0, len(targets))
	for _, t := range targets {
		resolved = append(resolved, p.Join(t))
	}
	return resolved
}

// CacheDir returns the sgrep cache directory (archive scratch space
// lives under here).
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, appDirName)
}

// ConfigDir returns the sgrep user settings directory.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// StateDir returns the sgrep state directory (logs).
func StateDir() string {
	return filepath.Join(xdg.StateHome, appDirName)
}
