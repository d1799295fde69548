package cli

import "github.com/yaklabco/gohtmlrewrite/pkg/runner"

// Exit codes for gohtmlrewrite.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitRewriteErrors indicates the rewrite completed but some files failed.
	ExitRewriteErrors = 1

	// ExitRewriteWarnings indicates markup warnings were found (strict mode).
	ExitRewriteWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitRewriteErrors
	}
	if strict && result.HasWarnings() {
		return ExitRewriteWarnings
	}

	return ExitSuccess
}
