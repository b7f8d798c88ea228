package pretty

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatResults(t *testing.T) {
	s := NewStyles(false)

	out := s.FormatResults([]FileResult{
		{Input: "bracket.inp", Output: "bracket.py"},
		{Input: "plate.md", Output: "plate.py"},
	})

	assert.Equal(t, "  bracket.inp -> bracket.py\n  plate.md -> plate.py\n", out)
}

func TestFormatSummaryOneLine(t *testing.T) {
	s := NewStyles(false)

	assert.Equal(t, "1 file converted in 5ms\n", s.FormatSummaryOneLine(Stats{
		FilesConverted: 1,
		Duration:       5 * time.Millisecond,
	}))

	assert.Equal(t, "3 files converted in 12ms, 1 failed\n", s.FormatSummaryOneLine(Stats{
		FilesConverted: 3,
		Failures:       1,
		Duration:       12 * time.Millisecond,
	}))
}

func TestFormatSummary(t *testing.T) {
	s := NewStyles(false)

	out := s.FormatSummary(Stats{
		FilesConverted: 2,
		Failures:       1,
		Duration:       40 * time.Millisecond,
	})

	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files converted: 2")
	assert.Contains(t, out, "Failures:        1")
	assert.Contains(t, out, "Duration:        40ms")
}

func TestFormatSummaryOmitsZeroFailures(t *testing.T) {
	s := NewStyles(false)

	out := s.FormatSummary(Stats{FilesConverted: 2, Duration: time.Millisecond})
	assert.NotContains(t, out, "Failures")
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, ColorEnabled("always", &buf))
	assert.False(t, ColorEnabled("never", &buf))
	// auto mode on a non-terminal writer
	assert.False(t, ColorEnabled("auto", &buf))
}
