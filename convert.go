package apdl2py

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ConvertScript converts an APDL script file into a python script driving
// PyMAPDL and writes it to outPath. When outPath is empty the output lands
// next to the input with a .py extension; in that case an existing file is
// an error rather than silently overwritten. The translated lines are
// returned as well.
func ConvertScript(inPath, outPath string, opts Options) ([]string, error) {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", inPath, err)
	}

	if outPath == "" {
		outPath = ReplaceExt(inPath, ".py")
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("the predefined output file %q already exists", outPath)
		}
	}

	t, err := translate(string(content), opts)
	if err != nil {
		return nil, err
	}

	if err := WriteScript(outPath, t.Lines(), t.LineEnding(), opts.CleanupOutput); err != nil {
		return nil, err
	}
	return t.Lines(), nil
}

// ConvertBlock converts a block of APDL text and returns the python source
// as a single string. The line ending is auto-detected from the input.
func ConvertBlock(text string, opts Options) (string, error) {
	t, err := translate(text, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(t.Lines(), t.LineEnding()), nil
}

// ConvertLines converts pre-split APDL lines.
func ConvertLines(lines []string, opts Options) ([]string, error) {
	t, err := NewTranslator(opts)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := t.TranslateLine(line); err != nil {
			return nil, err
		}
	}
	t.Finish()
	return t.Lines(), nil
}

func translate(text string, opts Options) (*Translator, error) {
	t, err := NewTranslator(opts)
	if err != nil {
		return nil, err
	}

	if le := detectLineEnding(text, t.LineEnding()); le != t.LineEnding() {
		if err := t.SetLineEnding(le); err != nil {
			return nil, err
		}
	}

	for _, line := range strings.Split(text, t.LineEnding()) {
		if err := t.TranslateLine(line); err != nil {
			return nil, err
		}
	}
	t.Finish()
	return t, nil
}

// detectLineEnding checks whether the configured ending actually occurs in
// the input on its own. If not, fall back to whichever ending the input
// does use, preferring "\r\n" so a Windows deck does not end up with bare
// newlines spliced in.
func detectLineEnding(text, current string) string {
	bare := regexp.MustCompile(`[^\r]` + regexp.QuoteMeta(current))
	if bare.MatchString(text) {
		return current
	}
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	if strings.Contains(text, "\n") {
		return "\n"
	}
	return current
}

// ReplaceExt swaps the extension of path for ext (which includes the dot).
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
