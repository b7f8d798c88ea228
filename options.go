package apdl2py

import "fmt"

// Options controls how an APDL script is translated to a PyMAPDL script.
//
// The zero value is not useful; start from DefaultOptions and override
// fields as needed.
type Options struct {
	// Logging level passed to the launch_mapdl call in the generated preamble
	LogLevel string
	// Append a final mapdl.exit() call. Only honored when AddImports is set.
	AutoExit bool
	// Line ending used to join the output. Must be "\n" or "\r\n".
	// Empty means auto-detect from the input (defaulting to "\n").
	LineEnding string
	// Location of the MAPDL executable, included in the launch_mapdl call
	ExecFile string
	// Convert *CREATE/*END macros to python function definitions
	MacrosAsFunctions bool
	// Emit mapdl.<command>(args) for known commands instead of
	// mapdl.run("COMMAND,args")
	UseFunctionNames bool
	// Prepend the launch_mapdl import and construction preamble
	AddImports bool
	// Comment out SOLVE/LSSOLVE lines instead of executing them
	CommentSolve bool
	// Run the output through autopep8 (external binary) before saving
	CleanupOutput bool
	// Emit the default generated-by header docstring
	Header bool
	// Custom header text. Overrides the default header when set.
	HeaderText string
	// Pass print_com=True to launch_mapdl so /COM text is echoed
	PrintCom bool
	// Convert only the commands: no header, no imports, no exit call.
	// Overrides Header, AddImports and AutoExit.
	OnlyCommands bool
	// Add a mapdl.clear() right after the launch_mapdl call
	ClearAtStart bool
	// When false, pass check_parameter_names=False to launch_mapdl
	CheckParameterNames bool
}

// DefaultOptions returns the converter defaults.
func DefaultOptions() Options {
	return Options{
		LogLevel:            "WARNING",
		AutoExit:            true,
		MacrosAsFunctions:   true,
		UseFunctionNames:    true,
		AddImports:          true,
		CleanupOutput:       true,
		Header:              true,
		PrintCom:            true,
		CheckParameterNames: true,
	}
}

// normalized applies option overrides (OnlyCommands disables all
// decoration around the converted commands).
func (o Options) normalized() Options {
	if o.OnlyCommands {
		o.Header = false
		o.HeaderText = ""
		o.AddImports = false
		o.AutoExit = false
	}
	return o
}

func validateLineEnding(le string) error {
	if le != "\n" && le != "\r\n" {
		return fmt.Errorf(`line ending must be either "\n" or "\r\n"`)
	}
	return nil
}
