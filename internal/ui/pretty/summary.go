package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FileResult is one converted input/output pair for display.
type FileResult struct {
	Input  string
	Output string
}

// Stats holds the counters for a conversion run.
type Stats struct {
	FilesConverted int
	Failures       int
	Duration       time.Duration
}

// FormatResults renders each converted file as "input -> output".
func (s *Styles) FormatResults(results []FileResult) string {
	var builder strings.Builder
	for _, r := range results {
		builder.WriteString("  ")
		builder.WriteString(s.FilePath.Render(r.Input))
		builder.WriteString(s.Arrow.Render(" -> "))
		builder.WriteString(s.SummaryValue.Render(r.Output))
		builder.WriteString("\n")
	}
	return builder.String()
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files converted in 12ms".
func (s *Styles) FormatSummaryOneLine(stats Stats) string {
	fileWord := wordFiles
	if stats.FilesConverted == 1 {
		fileWord = wordFile
	}

	msg := s.Success.Render(fmt.Sprintf("%d %s converted", stats.FilesConverted, fileWord))
	msg += s.Dim.Render(fmt.Sprintf(" in %s", stats.Duration.Round(time.Millisecond)))

	if stats.Failures > 0 {
		msg += ", " + s.Failure.Render(fmt.Sprintf("%d failed", stats.Failures))
	}
	return msg + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files converted: " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesConverted)) + "\n")

	if stats.Failures > 0 {
		builder.WriteString("  Failures:        " +
			s.Failure.Render(strconv.Itoa(stats.Failures)) + "\n")
	}

	builder.WriteString("  Duration:        " +
		s.SummaryValue.Render(stats.Duration.Round(time.Millisecond).String()) + "\n")

	return builder.String()
}
