// Package runner provides multi-file rewrite orchestration: discovery,
// a worker pool running one parse context per file, and aggregate stats.
package runner

import "github.com/yaklabco/gohtmlrewrite/pkg/config"

// Options controls multi-file rewriting behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading
	// dot) considered HTML. Defaults via DefaultExtensions().
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to
	// WorkingDir. Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the default set of HTML file extensions.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// effectiveExtensions returns the extensions to use, preferring the
// explicit option, then the config, then the default.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	if o.Config != nil && len(o.Config.Extensions) > 0 {
		return o.Config.Extensions
	}
	return DefaultExtensions()
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// effectiveConfig never returns nil.
func (o Options) effectiveConfig() *config.Config {
	if o.Config != nil {
		return o.Config
	}
	return config.NewConfig()
}
