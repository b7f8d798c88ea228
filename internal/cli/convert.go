package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apdltools/apdl2py"
	"github.com/apdltools/apdl2py/internal/config"
	"github.com/apdltools/apdl2py/internal/logging"
	"github.com/apdltools/apdl2py/internal/transformer"
	"github.com/apdltools/apdl2py/internal/ui/pretty"
)

type convertFlags struct {
	output              string
	loglevel            string
	execFile            string
	lineEnding          string
	headerText          string
	autoExit            bool
	macrosAsFunctions   bool
	useFunctionNames    bool
	addImports          bool
	commentSolve        bool
	cleanupOutput       bool
	header              bool
	printCom            bool
	onlyCommands        bool
	clearAtStart        bool
	checkParameterNames bool
	noBackup            bool
	summary             bool
}

func newConvertCommand(configPath *string, color *string) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert APDL scripts or markdown decks to python",
		Long:  convertLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags, *configPath, *color)
		},
	}

	addConvertFlags(cmd, flags)

	return cmd
}

const convertLongDescription = `Convert ANSYS APDL scripts to python scripts driving PyMAPDL.

A path may be a single script, a markdown deck with fenced apdl blocks,
or a directory. Directories are walked recursively, honoring .gitignore,
and every recognized input is converted next to its source.

Examples:
  apdl2py convert model.inp                  # model.inp -> model.py
  apdl2py convert model.inp -o run_model.py  # explicit output path
  apdl2py convert decks/                     # convert a whole tree
  apdl2py convert bracket.md                 # literate markdown deck
  apdl2py convert model.inp --only-commands  # no header, imports or exit`

func addConvertFlags(cmd *cobra.Command, flags *convertFlags) {
	defaults := apdl2py.DefaultOptions()

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output path (single input only; default: input with .py extension)")
	cmd.Flags().StringVar(&flags.loglevel, "loglevel", defaults.LogLevel,
		"logging level of the mapdl object in the generated script")
	cmd.Flags().StringVar(&flags.execFile, "exec-file", "",
		"path to the MAPDL executable, passed to launch_mapdl")
	cmd.Flags().StringVar(&flags.lineEnding, "line-ending", "",
		`line ending of the output, "unix" or "windows" (default: auto)`)
	cmd.Flags().StringVar(&flags.headerText, "header-text", "",
		"custom docstring for the top of the generated script")
	cmd.Flags().BoolVar(&flags.autoExit, "auto-exit", defaults.AutoExit,
		"append mapdl.exit() to the generated script")
	cmd.Flags().BoolVar(&flags.macrosAsFunctions, "macros-as-functions", defaults.MacrosAsFunctions,
		"convert APDL macros to python functions")
	cmd.Flags().BoolVar(&flags.useFunctionNames, "use-function-names", defaults.UseFunctionNames,
		"convert recognized commands to mapdl method calls")
	cmd.Flags().BoolVar(&flags.addImports, "add-imports", defaults.AddImports,
		"emit the launch_mapdl import and setup preamble")
	cmd.Flags().BoolVar(&flags.commentSolve, "comment-solve", defaults.CommentSolve,
		"comment out SOLVE and LSSOLVE commands")
	cmd.Flags().BoolVar(&flags.cleanupOutput, "cleanup-output", defaults.CleanupOutput,
		"format the output with autopep8 when available")
	cmd.Flags().BoolVar(&flags.header, "header", defaults.Header,
		"emit the generated-by docstring header")
	cmd.Flags().BoolVar(&flags.printCom, "print-com", defaults.PrintCom,
		"pass print_com=True to launch_mapdl")
	cmd.Flags().BoolVar(&flags.onlyCommands, "only-commands", defaults.OnlyCommands,
		"emit converted commands only: no header, imports or exit")
	cmd.Flags().BoolVar(&flags.clearAtStart, "clear-at-start", defaults.ClearAtStart,
		"add mapdl.clear() after the mapdl object initialization")
	cmd.Flags().BoolVar(&flags.checkParameterNames, "check-parameter-names", defaults.CheckParameterNames,
		"keep MAPDL parameter name checking enabled")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false,
		"do not back up existing output files before overwriting")
	cmd.Flags().BoolVar(&flags.summary, "summary", false,
		"print a summary block instead of a single line")
}

func runConvert(cmd *cobra.Command, args []string, flags *convertFlags, configPath, color string) error {
	logger := logging.Default()

	opts, err := resolveOptions(cmd, flags, configPath)
	if err != nil {
		return err
	}

	if flags.output != "" && (len(args) > 1 || isDir(args[0])) {
		return fmt.Errorf("--output can only be used with a single input file")
	}

	processor := NewProcessor(transformer.TransformOptions{
		Mode:     transformer.ModeScript,
		NoBackup: flags.noBackup,
		Convert:  opts,
	})

	styles := pretty.NewStyles(pretty.ColorEnabled(color, os.Stdout))

	start := time.Now()
	var results []pretty.FileResult
	var converted int

	for _, path := range args {
		if flags.output != "" {
			// Single explicit output bypasses the processor's path resolution,
			// so back up the target here.
			if !flags.noBackup {
				backup, err := apdl2py.NewBackupManager().CreateBackupOf(flags.output)
				if err != nil {
					return err
				}
				if backup != "" {
					logger.Debug("backed up", logging.FieldPath, backup)
				}
			}
			lines, err := apdl2py.ConvertScript(path, flags.output, opts)
			if err != nil {
				return err
			}
			logger.Debug("converted",
				logging.FieldInput, path,
				logging.FieldFiles, len(lines))
			results = append(results, pretty.FileResult{Input: path, Output: flags.output})
			converted++
			continue
		}

		runResults, err := processor.ProcessPath(path)
		if err != nil {
			return err
		}
		for _, r := range runResults {
			results = append(results, pretty.FileResult{Input: r.Path, Output: r.OutPath})
		}
		converted += len(runResults)
	}

	stats := pretty.Stats{
		FilesConverted: converted,
		Duration:       time.Since(start),
	}

	fmt.Fprint(os.Stdout, styles.FormatResults(results))
	if flags.summary {
		fmt.Fprint(os.Stdout, styles.FormatSummary(stats))
	} else {
		fmt.Fprint(os.Stdout, styles.FormatSummaryOneLine(stats))
	}

	return nil
}

// resolveOptions layers configuration: defaults, then the project config
// file, then explicitly set CLI flags.
func resolveOptions(cmd *cobra.Command, flags *convertFlags, configPath string) (apdl2py.Options, error) {
	opts := apdl2py.DefaultOptions()

	path := configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return opts, fmt.Errorf("resolving working directory: %w", err)
		}
		path, err = config.Discover(wd)
		if err != nil {
			return opts, err
		}
	}

	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return opts, err
		}
		opts = cfg.Apply(opts)
		logging.Default().Debug("loaded config", logging.FieldPath, path)
	}

	if cmd.Flags().Changed("loglevel") {
		opts.LogLevel = flags.loglevel
	}
	if cmd.Flags().Changed("exec-file") {
		opts.ExecFile = flags.execFile
	}
	if cmd.Flags().Changed("line-ending") {
		le, err := parseLineEnding(flags.lineEnding)
		if err != nil {
			return opts, err
		}
		opts.LineEnding = le
	}
	if cmd.Flags().Changed("header-text") {
		opts.HeaderText = flags.headerText
	}
	if cmd.Flags().Changed("auto-exit") {
		opts.AutoExit = flags.autoExit
	}
	if cmd.Flags().Changed("macros-as-functions") {
		opts.MacrosAsFunctions = flags.macrosAsFunctions
	}
	if cmd.Flags().Changed("use-function-names") {
		opts.UseFunctionNames = flags.useFunctionNames
	}
	if cmd.Flags().Changed("add-imports") {
		opts.AddImports = flags.addImports
	}
	if cmd.Flags().Changed("comment-solve") {
		opts.CommentSolve = flags.commentSolve
	}
	if cmd.Flags().Changed("cleanup-output") {
		opts.CleanupOutput = flags.cleanupOutput
	}
	if cmd.Flags().Changed("header") {
		opts.Header = flags.header
	}
	if cmd.Flags().Changed("print-com") {
		opts.PrintCom = flags.printCom
	}
	if cmd.Flags().Changed("only-commands") {
		opts.OnlyCommands = flags.onlyCommands
	}
	if cmd.Flags().Changed("clear-at-start") {
		opts.ClearAtStart = flags.clearAtStart
	}
	if cmd.Flags().Changed("check-parameter-names") {
		opts.CheckParameterNames = flags.checkParameterNames
	}

	return opts, nil
}

func parseLineEnding(value string) (string, error) {
	switch value {
	case "unix", `\n`:
		return "\n", nil
	case "windows", `\r\n`:
		return "\r\n", nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf(`invalid line ending %q: use "unix" or "windows"`, value)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
