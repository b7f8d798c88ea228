// Package config provides project-level configuration for the converter.
// A .apdl2py.yml file next to the scripts (or in any parent directory up
// to the VCS root) sets defaults that individual CLI flags can override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/apdltools/apdl2py"
)

// configFiles are the config file names we search for, in order of preference.
var configFiles = []string{
	".apdl2py.yml",
	".apdl2py.yaml",
	"apdl2py.yml",
	"apdl2py.yaml",
}

// vcsRootMarkers are directories that indicate a VCS root.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// Config mirrors the conversion options that make sense to pin per
// project. Pointer fields distinguish "unset" from an explicit false.
type Config struct {
	Loglevel            string `yaml:"loglevel,omitempty"`
	ExecFile            string `yaml:"exec_file,omitempty"`
	LineEnding          string `yaml:"line_ending,omitempty"`
	AutoExit            *bool  `yaml:"auto_exit,omitempty"`
	MacrosAsFunctions   *bool  `yaml:"macros_as_functions,omitempty"`
	UseFunctionNames    *bool  `yaml:"use_function_names,omitempty"`
	AddImports          *bool  `yaml:"add_imports,omitempty"`
	CommentSolve        *bool  `yaml:"comment_solve,omitempty"`
	CleanupOutput       *bool  `yaml:"cleanup_output,omitempty"`
	Header              *bool  `yaml:"header,omitempty"`
	HeaderText          string `yaml:"header_text,omitempty"`
	PrintCom            *bool  `yaml:"print_com,omitempty"`
	OnlyCommands        *bool  `yaml:"only_commands,omitempty"`
	ClearAtStart        *bool  `yaml:"clear_at_start,omitempty"`
	CheckParameterNames *bool  `yaml:"check_parameter_names,omitempty"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.LineEnding, err = normalizeLineEnding(cfg.LineEnding)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// normalizeLineEnding accepts the same names the CLI flag does and maps
// them to the literal separator the writer expects.
func normalizeLineEnding(value string) (string, error) {
	switch value {
	case "", "\n", "\r\n":
		return value, nil
	case "unix":
		return "\n", nil
	case "windows":
		return "\r\n", nil
	default:
		return "", fmt.Errorf(`invalid line ending %q: use "unix" or "windows"`, value)
	}
}

// Discover searches upward from workDir for a project config file,
// stopping at the VCS root. Returns an empty string when none exists.
func Discover(workDir string) (string, error) {
	dir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", workDir, err)
	}

	for {
		for _, name := range configFiles {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		if isVCSRoot(dir) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// Apply overlays the config onto opts, leaving unset fields alone.
func (c *Config) Apply(opts apdl2py.Options) apdl2py.Options {
	if c.Loglevel != "" {
		opts.LogLevel = c.Loglevel
	}
	if c.ExecFile != "" {
		opts.ExecFile = c.ExecFile
	}
	if c.LineEnding != "" {
		opts.LineEnding = c.LineEnding
	}
	if c.HeaderText != "" {
		opts.HeaderText = c.HeaderText
	}

	setBool(&opts.AutoExit, c.AutoExit)
	setBool(&opts.MacrosAsFunctions, c.MacrosAsFunctions)
	setBool(&opts.UseFunctionNames, c.UseFunctionNames)
	setBool(&opts.AddImports, c.AddImports)
	setBool(&opts.CommentSolve, c.CommentSolve)
	setBool(&opts.CleanupOutput, c.CleanupOutput)
	setBool(&opts.Header, c.Header)
	setBool(&opts.PrintCom, c.PrintCom)
	setBool(&opts.OnlyCommands, c.OnlyCommands)
	setBool(&opts.ClearAtStart, c.ClearAtStart)
	setBool(&opts.CheckParameterNames, c.CheckParameterNames)

	return opts
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
