// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldURL        = "url"
	FieldLine       = "line"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldFilters  = "filters"
	FieldCoalesce = "coalesce"
	FieldInPlace  = "in_place"
	FieldJobs     = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesSkipped    = "files_skipped"
	FieldFilesWritten    = "files_written"
	FieldWarnings        = "warnings"
	FieldBytesIn         = "bytes_in"
	FieldBytesOut        = "bytes_out"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Filter fields.
	FieldName   = "name"
	FieldReason = "reason"
)
