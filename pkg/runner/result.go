package runner

import "github.com/yaklabco/gohtmlrewrite/pkg/textdiff"

// FileOutcome is the result of rewriting one file.
type FileOutcome struct {
	// Path is the absolute path of the processed file.
	Path string

	// Output is the rewritten document. It is nil when the file was
	// skipped or written in place without changes being requested back.
	Output []byte

	// Warnings counts the malformed-markup recoveries for this file.
	Warnings int

	// BytesIn is the input document size.
	BytesIn int

	// Skipped is true when the file was not rewritten at all.
	Skipped bool

	// SkipReason explains a skip ("not html", "modified during rewrite").
	SkipReason string

	// Written is true when the file was rewritten in place.
	Written bool

	// Unchanged is true when the rewritten output matched the input.
	Unchanged bool

	// Diff holds the pending changes in diff output mode. Nil when the
	// file is unchanged or diffing was not requested.
	Diff *textdiff.Diff

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully rewritten.
	FilesProcessed int

	// FilesSkipped is the number of files skipped (not HTML, or modified
	// concurrently).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesWritten is the number of files modified in place.
	FilesWritten int

	// FilesUnchanged counts files whose rewrite produced identical bytes.
	FilesUnchanged int

	// Warnings is the total number of markup warnings across all files.
	Warnings int

	// BytesIn and BytesOut total the input and output document sizes.
	BytesIn  int64
	BytesOut int64
}

// Result is the overall runner result. Files are ordered
// deterministically by path regardless of worker completion order.
type Result struct {
	Files []FileOutcome
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasErrors reports whether any file failed outright.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// HasWarnings reports whether any file produced markup warnings.
func (r *Result) HasWarnings() bool {
	if r == nil {
		return false
	}
	return r.Stats.Warnings > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Skipped {
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.Warnings += outcome.Warnings
	r.Stats.BytesIn += int64(outcome.BytesIn)
	r.Stats.BytesOut += int64(len(outcome.Output))
	if outcome.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Unchanged {
		r.Stats.FilesUnchanged++
	}
}
