package transformer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apdltools/apdl2py"
	"github.com/charmbracelet/log"
)

// Mode selects what kind of python output the transformer produces.
type Mode int

const (
	// ModeScript produces a runnable script with header and launch preamble.
	ModeScript Mode = iota
	// ModeShadow produces a throwaway file at a forced path for the
	// language server; no backups are taken for those.
	ModeShadow
)

type TransformOptions struct {
	// The mode for this transformer instance
	Mode Mode
	// If true, no backup will be created
	NoBackup bool
	// If true, markdown decks must carry an output pragma, otherwise transform will error
	RequirePragmaOutput bool
	// Conversion options passed through to the translator
	Convert apdl2py.Options
}

func (t *TransformOptions) Pretty() string {
	return fmt.Sprintf("mode=%s backup=%s require_output_pragma=%s",
		modeToString(t.Mode),
		boolToText(!t.NoBackup),
		boolToText(t.RequirePragmaOutput))
}

func modeToString(mode Mode) string {
	switch mode {
	case ModeScript:
		return "Script"
	case ModeShadow:
		return "Shadow"
	default:
		return fmt.Sprintf("Mode(%d)", mode)
	}
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Transformer converts an APDL source, either a bare script or a markdown
// deck with fenced blocks, into a python file on disk.
type Transformer struct {
	parser *apdl2py.Parser
	backup *apdl2py.BackupManager

	opts TransformOptions
}

// NewTransformer creates a new Transformer instance with the specified options [TransformOptions]
func NewTransformer(opts TransformOptions) *Transformer {
	return &Transformer{
		parser: apdl2py.NewParser(),
		backup: apdl2py.NewBackupManager(),
		opts:   opts,
	}
}

type Source struct {
	Content  io.Reader
	Metadata apdl2py.MetaData
}

// Transform handles standard transformation (using pragmas/default paths)
func (t *Transformer) Transform(input Source) (string, error) {
	if t.opts.Mode == ModeShadow {
		return "", fmt.Errorf("cannot use Transform() for shadow mode, use TransformToPath() instead")
	}

	return t.transform(input, "")
}

// TransformToPath forces output to a specific path (for lsp shadow files)
func (t *Transformer) TransformToPath(input Source, outputPath string) (string, error) {
	if t.opts.Mode != ModeShadow {
		return "", fmt.Errorf("TransformToPath() can only be used with shadow mode")
	}
	if outputPath == "" {
		return "", fmt.Errorf("output path is required for shadow transformation")
	}

	return t.transform(input, outputPath)
}

func (t *Transformer) transform(input Source, forcedPath string) (string, error) {
	log.Debug("transforming source", "path", input.Metadata.AbsSource)
	if input.Metadata.AbsSource == "" {
		return "", fmt.Errorf("abs source metadata is required for transformation")
	}

	apdlText, pragmas, err := t.readSource(input)
	if err != nil {
		return "", err
	}

	convertOpts := t.opts.Convert
	if pragmas.OnlyCommands {
		convertOpts.OnlyCommands = true
	}

	var absOutPath string
	if forcedPath != "" {
		absOutPath = forcedPath
	} else if t.opts.RequirePragmaOutput {
		if pragmas.Output == "" {
			return "", fmt.Errorf("pragma key 'output' is required for transformation")
		}
		absOutPath = filepath.Join(filepath.Dir(input.Metadata.AbsSource), pragmas.Output)
	} else {
		absOutPath = apdl2py.ResolveOutputPath(input.Metadata.AbsSource, pragmas.Output)
	}

	// Only support creating backups for script mode
	var bkPath string
	if !t.opts.NoBackup && t.opts.Mode == ModeScript {
		bkPath, err = t.backup.CreateBackupOf(absOutPath)
		if err != nil {
			return "", fmt.Errorf("backup error: %w", err)
		}
	}

	if bkPath != "" {
		log.Info("file already existed. Created backup", "backup", bkPath, "original", input.Metadata.AbsSource)
	}

	if err := os.MkdirAll(filepath.Dir(absOutPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	lines, err := apdl2py.ConvertLines(splitLines(apdlText), convertOpts)
	if err != nil {
		return "", fmt.Errorf("convert error: %w", err)
	}

	cleanup := convertOpts.CleanupOutput && t.opts.Mode == ModeScript
	if err := apdl2py.WriteScript(absOutPath, lines, lineEnding(convertOpts, apdlText), cleanup); err != nil {
		return "", fmt.Errorf("write error: %w", err)
	}

	return absOutPath, nil
}

// readSource loads the APDL text for a source, extracting fenced blocks
// and pragmas when the source is a markdown deck.
func (t *Transformer) readSource(input Source) (string, apdl2py.Pragma, error) {
	if strings.EqualFold(filepath.Ext(input.Metadata.AbsSource), ".md") {
		deck, err := t.parser.ParseDeck(input.Content, input.Metadata)
		if err != nil {
			return "", apdl2py.Pragma{}, fmt.Errorf("parse error: %w", err)
		}
		return deck.APDL(), deck.Pragmas, nil
	}

	content, err := io.ReadAll(input.Content)
	if err != nil {
		return "", apdl2py.Pragma{}, fmt.Errorf("read error: %w", err)
	}
	return string(content), apdl2py.Pragma{}, nil
}

func splitLines(text string) []string {
	if strings.Contains(text, "\r\n") {
		return strings.Split(text, "\r\n")
	}
	return strings.Split(text, "\n")
}

func lineEnding(opts apdl2py.Options, text string) string {
	if opts.LineEnding != "" {
		return opts.LineEnding
	}
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
