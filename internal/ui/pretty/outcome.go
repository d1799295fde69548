package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/runner"
)

// FormatOutcome formats a single file outcome for terminal output.
// Example: "  page.html  written (2 warnings)".
func (s *Styles) FormatOutcome(outcome runner.FileOutcome) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(s.FilePath.Render(outcome.Path))
	builder.WriteString("  ")

	switch {
	case outcome.Error != nil:
		builder.WriteString(s.Error.Render("failed"))
		builder.WriteString(s.Dim.Render(": " + outcome.Error.Error()))
	case outcome.Skipped:
		builder.WriteString(s.Dim.Render("skipped (" + outcome.SkipReason + ")"))
	case outcome.Written:
		builder.WriteString(s.Success.Render("written"))
	case outcome.Unchanged:
		builder.WriteString(s.Dim.Render("unchanged"))
	default:
		builder.WriteString(s.Message.Render("rewritten"))
	}

	if outcome.Warnings > 0 {
		builder.WriteString(" " + s.Warning.Render(fmt.Sprintf("(%d warnings)", outcome.Warnings)))
	}

	builder.WriteString("\n")
	return builder.String()
}

// FormatFilterList formats the available filter names as an aligned list.
func (s *Styles) FormatFilterList(names []string, descriptions map[string]string) string {
	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	var builder strings.Builder
	for _, name := range names {
		builder.WriteString("  ")
		builder.WriteString(s.FilterName.Render(fmt.Sprintf("%-*s", width, name)))
		if desc := descriptions[name]; desc != "" {
			builder.WriteString("  " + s.FilterDesc.Render(desc))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
