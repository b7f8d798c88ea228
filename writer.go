package apdl2py

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// WriteScript writes translated lines to path. Backslashes are doubled so
// Windows paths embedded in run() string literals survive python parsing.
// When cleanup is set the output is piped through autopep8 if the binary
// is on PATH.
func WriteScript(path string, lines []string, lineEnding string, cleanup bool) error {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		escaped[i] = strings.ReplaceAll(line, `\`, `\\`)
	}

	text := strings.Join(escaped, lineEnding)
	if cleanup {
		text = formatPython(text)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// formatPython runs text through autopep8. Formatting is cosmetic, so a
// missing binary or a formatter failure keeps the unformatted text.
func formatPython(text string) string {
	bin, err := exec.LookPath("autopep8")
	if err != nil {
		log.Warn("autopep8 not found on PATH; skipping output formatting")
		return text
	}

	cmd := exec.Command(bin, "-")
	cmd.Stdin = strings.NewReader(text)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		log.Warn("autopep8 failed; keeping unformatted output", "err", err)
		return text
	}
	return out.String()
}
