package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/apdltools/apdl2py"
	"github.com/apdltools/apdl2py/internal/logging"
	"github.com/apdltools/apdl2py/internal/transformer"
)

const (
	maxFiles   = 500
	maxWorkers = 4
)

type ConvertResult struct {
	Path     string
	OutPath  string
	Duration time.Duration
}

type processResult struct {
	Path    string
	OutPath string
	Error   error
}

// Processor runs conversions over a file or a whole directory tree.
type Processor struct {
	transformer *transformer.Transformer
	opts        transformer.TransformOptions
}

func NewProcessor(opts transformer.TransformOptions) *Processor {
	return &Processor{
		transformer: transformer.NewTransformer(opts),
		opts:        opts,
	}
}

func (p *Processor) ProcessPath(path string) ([]ConvertResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path: %w", err)
	}

	if info.IsDir() {
		return p.processDirectory(path)
	}

	start := time.Now()
	result := p.processFile(path)
	if result.Error != nil {
		return nil, result.Error
	}

	return []ConvertResult{{
		Path:     result.Path,
		OutPath:  result.OutPath,
		Duration: time.Since(start),
	}}, nil
}

// findFiles walks the directory tree starting at root and returns the
// convertible files.
//
// If a .git directory is found, it will be used to load .gitignore patterns.
func (p *Processor) findFiles(root string) ([]string, error) {
	var files []string
	var patterns []gitignore.Pattern

	if _, err := os.Stat(filepath.Join(root, ".git")); err == nil {
		patterns = append(patterns, gitignore.ParsePattern(".git/", nil))

		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			for _, pat := range strings.Split(string(data), "\n") {
				if pat = strings.TrimSpace(pat); pat != "" && !strings.HasPrefix(pat, "#") {
					patterns = append(patterns, gitignore.ParsePattern(pat, nil))
				}
			}
		}
	}

	matcher := gitignore.NewMatcher(patterns)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		pathComponents := strings.Split(relPath, string(os.PathSeparator))

		if len(patterns) > 0 {
			if matcher.Match(pathComponents, info.IsDir()) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if !info.IsDir() && convertible(path) {
			if len(files) >= maxFiles {
				return fmt.Errorf("max files limit reached (%d)", maxFiles)
			}
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no convertible files found (looked for APDL scripts and .md decks)")
	}

	return files, nil
}

// convertible reports whether path is an input the converter understands:
// an APDL script by extension, or a markdown deck.
func convertible(path string) bool {
	if apdl2py.IsAPDLFile(path) {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func (p *Processor) processDirectory(root string) ([]ConvertResult, error) {
	startTime := time.Now()
	logger := logging.Default()
	logger.Debug("starting directory processing", logging.FieldPath, root)

	files, err := p.findFiles(root)
	if err != nil {
		return nil, err
	}

	logger.Debug("found files to process",
		logging.FieldFiles, len(files),
		logging.FieldDuration, time.Since(startTime))

	jobs := make(chan string, len(files))
	results := make(chan processResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- p.processFile(path)
			}
		}()
	}

	for _, file := range files {
		jobs <- file
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var errs []error
	var converted []ConvertResult

	for result := range results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("failed to process %s: %w", result.Path, result.Error))
			logger.Debug("failed to process file",
				logging.FieldPath, result.Path,
				logging.FieldError, result.Error)
			continue
		}

		absRoot, _ := filepath.Abs(root)
		relSource, _ := filepath.Rel(absRoot, result.Path)
		relOut, _ := filepath.Rel(absRoot, result.OutPath)

		converted = append(converted, ConvertResult{
			Path:    relSource,
			OutPath: relOut,
		})

		logger.Debug("file converted",
			logging.FieldInput, relSource,
			logging.FieldOutput, relOut)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("encountered %d errors during conversion. Please rerun with --debug to see trace", len(errs))
	}

	logger.Debug("conversion completed",
		logging.FieldDuration, time.Since(startTime),
		logging.FieldFiles, len(converted))
	return converted, nil
}

func (p *Processor) processFile(path string) processResult {
	startTime := time.Now()
	logger := logging.Default()
	var result processResult

	absPath, err := filepath.Abs(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to resolve absolute path: %w", err)
		return result
	}

	result.Path = absPath

	logger.Debug("processing file", logging.FieldPath, absPath)

	if !convertible(absPath) {
		result.Error = fmt.Errorf("unsupported file extension %q", filepath.Ext(absPath))
		return result
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		result.Error = fmt.Errorf("error reading file: %w", err)
		return result
	}

	src := transformer.Source{
		Content: bytes.NewReader(content),
		Metadata: apdl2py.MetaData{
			AbsSource: absPath,
		},
	}

	outPath, err := p.transformer.Transform(src)
	if err != nil {
		result.Error = err
		return result
	}

	result.OutPath = outPath
	logger.Debug("file processed",
		logging.FieldPath, absPath,
		logging.FieldDuration, time.Since(startTime))

	return result
}
