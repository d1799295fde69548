package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "rewrote 3 files (2 written, 5 warnings), 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesProcessed == 0 && stats.FilesErrored == 0 {
		msg := s.Dim.Render(fmt.Sprintf("no files rewritten (%d discovered, %d skipped)",
			stats.FilesDiscovered, stats.FilesSkipped))
		return msg + "\n"
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("rewrote %d %s", stats.FilesProcessed, plural(stats.FilesProcessed)))

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.Warnings > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d warnings", stats.Warnings)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files rewritten:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesUnchanged > 0 {
		builder.WriteString("  Files unchanged:   " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesUnchanged)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Bytes in:          " +
		s.SummaryValue.Render(strconv.FormatInt(stats.BytesIn, 10)) + "\n")
	builder.WriteString("  Bytes out:         " +
		s.SummaryValue.Render(strconv.FormatInt(stats.BytesOut, 10)) + "\n")

	if stats.Warnings > 0 {
		builder.WriteString("  Markup warnings:   " +
			s.Warning.Render(strconv.Itoa(stats.Warnings)) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Rewrite failed with errors"))
	case stats.Warnings > 0:
		builder.WriteString(s.Warning.Render("Rewrite completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Rewrite completed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
