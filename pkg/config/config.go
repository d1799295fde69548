// Package config defines core configuration types for gohtmlrewrite.
// These types are pure data structures with no dependency on the engine
// or any config-loading framework.
package config

// OutputMode specifies where rewritten documents go.
type OutputMode string

const (
	// OutputStdout streams every rewritten document to standard output.
	OutputStdout OutputMode = "stdout"
	// OutputInPlace rewrites each file atomically in place.
	OutputInPlace OutputMode = "in-place"
	// OutputDiff prints a unified diff of the pending changes without
	// touching any file.
	OutputDiff OutputMode = "diff"
)

// IsValid returns true if the output mode is valid.
func (m OutputMode) IsValid() bool {
	switch m {
	case OutputStdout, OutputInPlace, OutputDiff:
		return true
	default:
		return false
	}
}

// BackupsConfig controls backup behavior for in-place rewriting.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for gohtmlrewrite.
type Config struct {
	// Filters is the ordered filter chain, by registered name.
	// An empty chain defaults to just the serializing writer.
	Filters []string `yaml:"filters"`

	// Coalesce toggles merging of adjacent text nodes during rewriting.
	// nil means the engine default (enabled).
	Coalesce *bool `yaml:"coalesce"`

	// LogLevel sets the diagnostic verbosity: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Output selects stdout streaming, in-place rewriting, or a diff
	// preview.
	Output OutputMode `yaml:"output"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Extensions lists the file extensions treated as HTML.
	Extensions []string `yaml:"extensions"`

	// Backups configures backups for in-place rewriting.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers; 0 means auto.
	Jobs int `yaml:"-"`

	// Force rewrites files even when they do not look like HTML.
	Force bool `yaml:"-"`

	// NoBackups disables backup creation regardless of Backups.Enabled.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Filters:    []string{"writer"},
		LogLevel:   "info",
		Output:     OutputStdout,
		Extensions: []string{".html", ".htm", ".xhtml"},
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
	}
}

// CoalesceEnabled resolves the tri-state Coalesce field.
func (c *Config) CoalesceEnabled() bool {
	if c.Coalesce == nil {
		return true
	}
	return *c.Coalesce
}

// BackupsEnabled reports whether in-place rewriting should keep backups,
// honoring the CLI override.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups && c.Backups.Mode != "none"
}
