package apdl2py

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const objName = "mapdl"

const indentUnit = "    "

// maxMacroArgs is the number of ARG slots an APDL macro exposes.
const maxMacroArgs = 18

// argPlaceholder matches macro argument tokens, longest number first so
// ARG11 is never split into ARG1 + "1".
var argPlaceholder = regexp.MustCompile(`ARG(1[0-8]|[1-9])`)

// Translator converts an APDL script line by line into a PyMAPDL python
// script. All translation state lives on the struct, so independent
// translations can run concurrently, one Translator each.
type Translator struct {
	opts Options

	indent  string
	lines   []string
	comment string

	nonInteractiveLevel int
	nonInteractive      bool
	chainedLevel        int
	chained             bool

	inFunction bool
	functions  []string
	macroNames []string

	inBlock          bool
	blockCount       int
	blockCountTarget int

	verificationExample bool

	lineEnding string
}

// NewTranslator builds a translator, emitting the configured header and
// launch preamble into the output buffer.
func NewTranslator(opts Options) (*Translator, error) {
	opts = opts.normalized()

	le := opts.LineEnding
	if le == "" {
		le = "\n"
	} else if err := validateLineEnding(le); err != nil {
		return nil, err
	}

	t := &Translator{
		opts:       opts,
		lineEnding: le,
	}

	t.writeHeader()
	if opts.AddImports {
		t.writePreamble()
	}
	return t, nil
}

// Lines returns the translated output accumulated so far.
func (t *Translator) Lines() []string {
	return t.lines
}

// LineEnding returns the line ending the output will be joined with.
func (t *Translator) LineEnding() string {
	return t.lineEnding
}

// SetLineEnding overrides the output line ending. Used by the block entry
// point after auto-detection.
func (t *Translator) SetLineEnding(le string) error {
	if err := validateLineEnding(le); err != nil {
		return err
	}
	t.lineEnding = le
	return nil
}

// Finish appends the exit call when configured and reports unterminated
// constructs. The output is still usable when constructs dangle; the
// warning is the only signal (partially-degraded result).
func (t *Translator) Finish() {
	if t.inFunction {
		log.Warn("input ended inside a macro definition; generated function is unterminated")
	}
	if t.inBlock || t.nonInteractiveLevel > 0 {
		log.Warn("input ended inside an open block; non_interactive context left open")
	}
	if t.opts.AutoExit && t.opts.AddImports {
		t.writeExit()
	}
}

func (t *Translator) writeHeader() {
	if t.opts.HeaderText != "" {
		t.appendLine(fmt.Sprintf(`"""%s"""`, t.opts.HeaderText))
		t.appendLine("")
		return
	}
	if t.opts.Header {
		t.appendLine(fmt.Sprintf(`"""Script generated by apdl2py version %s"""`, VERSION))
		t.appendLine("")
	}
}

func (t *Translator) writePreamble() {
	t.appendLine("from ansys.mapdl.core import launch_mapdl")

	args := []string{fmt.Sprintf(`loglevel="%s"`, t.opts.LogLevel)}
	if t.opts.ExecFile != "" {
		args = append(args, fmt.Sprintf(`exec_file="%s"`, t.opts.ExecFile))
	}
	if t.opts.PrintCom {
		args = append(args, "print_com=True")
	}
	if !t.opts.CheckParameterNames {
		args = append(args, "check_parameter_names=False")
	}

	t.appendLine(fmt.Sprintf("%s = launch_mapdl(%s)", objName, strings.Join(args, ", ")))

	if t.opts.ClearAtStart {
		t.appendLine(fmt.Sprintf("%s.clear() # Clearing session", objName))
	}
}

func (t *Translator) writeExit() {
	t.appendLine("")
	t.appendLine(fmt.Sprintf("%s.exit()", objName))
}

// TranslateLine converts a single APDL line, appending the result to the
// output buffer. Unrecognized syntax degrades to a raw run call; the only
// error is the single-quote validation on /CWD paths.
func (t *Translator) TranslateLine(line string) error {
	// $-chained commands run batched inside a chain_commands context.
	if strings.Contains(line, "$") {
		t.startChainedCommands()
		for _, part := range strings.Split(line, "$") {
			if err := t.TranslateLine(part); err != nil {
				t.endChainedCommands()
				return err
			}
		}
		t.endChainedCommands()
		return nil
	}

	t.comment = ""
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, `"`, "'")

	if t.inBlock {
		t.blockCount++
		if t.blockCountTarget > 0 && t.blockCount >= t.blockCountTarget {
			t.inBlock = false
			t.endNonInteractive()
			t.blockCount = 0
		}
	}

	// Comment handling. A bang inside a quoted literal is not a comment.
	if strings.Contains(line, "!") && !strings.Contains(line, "'!'") {
		if line[0] == '!' {
			t.comment = strings.TrimSpace(strings.ReplaceAll(line, "!", ""))
			t.storeComment()
			return nil
		}
		parts := strings.Split(line, "!")
		line = parts[0]
		t.comment = strings.TrimLeft(strings.Join(parts[1:], " "), " \t")
	}

	if strings.TrimSpace(line) == "" {
		t.appendLine("")
		return nil
	}

	// Drop trailing empty comma-separated fields (deck generators pad some
	// commands with spare commas).
	line = trimEmptyTrailingFields(line)
	if line == "" {
		t.appendLine("")
		return nil
	}
	lineWithTrailingCommas := line
	line = strings.TrimSuffix(line, ",")

	lineUpper := strings.ToUpper(line)
	cmdCaps := strings.ToUpper(strings.SplitN(line, ",", 2)[0])
	cmdShort := short(cmdCaps, 4)
	items := getItems(strings.TrimSpace(line))

	if cmdShort == "/CWD" && strings.Contains(line, "'") {
		return fmt.Errorf("invalid /CWD path %q: single quotes are not allowed", line)
	}

	if (cmdShort == "SOLV" || cmdShort == "LSSO") && t.opts.CommentSolve {
		t.storeCommand("com", []string{"The following line has been commented due to `comment_solve`:"})
		t.storeCommand("com", []string{line})
		return nil
	}

	if cmdShort == "/VER" {
		t.verificationExample = true
	}

	if cmdShort == "/COM" || cmdShort == "C***" {
		t.storeCommand("com", []string{tail(line, 5)})
		return nil
	}

	if cmdCaps == "*DO" {
		t.startNonInteractive()
		t.storeRunCommand(line)
		return nil
	}

	if cmdCaps == "*ENDDO" || cmdCaps == "*ENDIF" {
		t.storeRunCommand(line)
		t.endNonInteractive()
		return nil
	}

	if strings.Contains(cmdCaps, "/EXI") && t.nonInteractive {
		t.storeCommand("com", []string{"Skipping: " + line})
		return nil
	}

	if outputToFile(line) {
		if t.verificationExample && strings.Contains(lineUpper, "SCRATCH") {
			t.storeCommand("com", []string{"Skipping: " + line})
		} else {
			t.startNonInteractive()
			t.storeRunCommand(line)
		}
		return nil
	}

	if outputToDefault(line) {
		t.storeRunCommand(line)
		t.storeRunCommand("/GOPR") // make sure printing is back on
		t.endNonInteractive()
		return nil
	}

	if cmdCaps == "/VERIFY" {
		t.storeRunCommand("FINISH")
		t.storeRunCommand(line)
		return nil
	}

	if cmdShort == "*REP" && !t.nonInteractive {
		// *REPEAT reruns the previous command, which only works when both
		// commands are submitted together. Pull the previous line back
		// inside a fresh non_interactive block.
		if len(t.lines) > 0 {
			prev := t.lines[len(t.lines)-1]
			t.lines = t.lines[:len(t.lines)-1]
			t.startNonInteractive()
			t.lines = append(t.lines, t.indent+prev)
		} else {
			t.startNonInteractive()
		}
		t.storeRunCommand(line)
		t.endNonInteractive()
		return nil
	}

	if commandsWithEmptyArgs[cmdShort] &&
		strings.Contains(strings.ReplaceAll(lineWithTrailingCommas, " ", ""), ",,") {
		t.storeRunCommand(line)
		return nil
	}

	if commandsToNotBeConverted[cmdShort] {
		t.storeRunCommand(line)
		return nil
	}

	if cmdShort == "/TIT" {
		params := strings.Split(line, ",")[1:]
		t.storeCommand("title", []string{strings.TrimSpace(strings.Join(params, ","))})
		return nil
	}

	if cmdShort == "/AXL" {
		params := strings.Split(line, ",")[1:]
		if len(params) > 0 {
			t.storeCommand("axlab", []string{params[0], strings.Join(params[1:], ",")})
		} else {
			t.storeCommand("axlab", nil)
		}
		return nil
	}

	if cmdShort == "*GET" {
		if t.nonInteractive {
			// The return value is not observable inside a batched block.
			t.storeRunCommand(line)
		} else {
			t.storeCommand("get", strings.Split(line, ",")[1:])
		}
		return nil
	}

	if cmdShort == "/NOP" {
		t.comment = "It is not recommended to use '/NOPR' in a normal PyMAPDL session."
		t.storeUnderscoredRunCommand(line)
		return nil
	}

	if cmdShort == "*CRE" {
		if len(items) > 1 {
			t.macroNames = append(t.macroNames, items[1])
		}
		if t.opts.MacrosAsFunctions {
			if len(items) > 1 {
				t.startFunction(strings.TrimSpace(items[1]))
				return nil
			}
		} else {
			t.startNonInteractive()
		}
	}

	// Calling a macro previously converted into a function, either by its
	// bare name or through *USE.
	if t.opts.MacrosAsFunctions && contains(t.macroNames, items[0]) {
		name := strings.TrimSpace(items[0])
		t.storePythonCommand(fmt.Sprintf("%s(%s)", name, t.parseArguments(items[1:])))
		return nil
	}

	if cmdShort == "*USE" && t.opts.MacrosAsFunctions && len(items) > 1 {
		name := strings.TrimSpace(items[1])
		if contains(t.functions, name) {
			t.storePythonCommand(fmt.Sprintf("%s(%s)", name, t.parseArguments(items[2:])))
			return nil
		}
	}

	if cmdCaps == "/PREP7" {
		t.storeCommand("prep7", nil)
		return nil
	}

	if strings.Contains(lineUpper, "*END") {
		if t.opts.MacrosAsFunctions {
			t.storeEmptyLine()
			t.storeEmptyLine()
			t.dedent()
			t.inFunction = false
			if !t.inBlock {
				t.endNonInteractive()
			}
			return nil
		}
		t.storeRunCommand(line)
		if !t.inBlock {
			t.endNonInteractive()
		}
		return nil
	}

	if strings.HasPrefix(cmdCaps, "*IF") || strings.Contains(lineUpper, "*IF") {
		t.startNonInteractive()
		t.storeRunCommand(line)
		return nil
	}

	// Format/data continuation for a preceding *VWRITE-style command.
	if line[0] == '(' {
		if !t.nonInteractive {
			prev := ""
			if len(t.lines) > 0 {
				prev = t.lines[len(t.lines)-1]
			}
			log.Warn("possible invalid line: a format line requires a *VWRITE beforehand",
				"line", line, "previous", prev)
		}
		t.storeRunCommand(line)
		if !t.inBlock {
			t.endNonInteractive()
		}
		return nil
	}

	// A parameter assignment mutates solver state and must be replayed
	// verbatim.
	if strings.Contains(items[0], "=") {
		t.storeRunCommand(line)
		return nil
	}

	command := strings.TrimSpace(strings.ToLower(items[0]))
	parameters := items[1:]
	if command == "" {
		t.storeEmptyLine()
		return nil
	}

	if line == "-1" || lineUpper == "END PREAD" {
		t.storeRunCommand(line)
		t.inBlock = false
		t.endNonInteractive()
		return nil
	}

	switch {
	case !validCommandsShort[pymapdlCommand(command)] && nonInteractiveCommands[cmdShort]:
		if _, ok := blockCommands[cmdShort]; ok {
			t.inBlock = true
			t.blockCount = 0
			t.blockCountTarget = 0
		} else if _, ok := enumBlockCommands[cmdShort]; ok {
			t.inBlock = true
			t.blockCount = 0
			t.blockCountTarget = cmblockTarget(line)
		}
		t.startNonInteractive()
		t.storeRunCommand(line)

	case t.opts.UseFunctionNames:
		if forced, ok := forcedMapping[strings.ToUpper(command)]; ok {
			command = forced
		} else {
			switch command[0] {
			case '/':
				slash := "slash" + short(command[1:], 3)
				if validCommandsShort[slash] {
					command = slash
				} else {
					command = command[1:]
				}
			case '*':
				star := "star" + short(command[1:], 3)
				if validCommandsShort[star] {
					command = star
				} else {
					command = command[1:]
				}
			}
			if !isMethod(command) {
				command = findMatch(command)
			}
		}

		if command != "" {
			t.storeCommand(command, parameters)
		} else {
			t.storeRunCommand(line)
		}

	default:
		t.storeRunCommand(line)
	}
	return nil
}

// cmblockTarget computes how many lines a CMBLOCK spans: the header and
// format lines plus ceil(numitems/8) data lines. A count field that is not
// a literal (a parameter reference) cannot be resolved here; fall back to
// sentinel termination instead of never closing the block.
func cmblockTarget(line string) int {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return 0
	}
	numItems, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil || numItems < 0 {
		log.Warn("CMBLOCK item count is not a literal; waiting for a sentinel line instead",
			"line", line)
		return 0
	}
	dataLines := numItems / 8
	if numItems%8 != 0 {
		dataLines++
	}
	return dataLines + 2
}

func pymapdlCommand(command string) string {
	if strings.HasPrefix(command, "/") || strings.HasPrefix(command, "*") {
		return command[1:]
	}
	return command
}

// outputToFile reports whether the line redirects solver output to a file.
// Those lines must run batched, otherwise the redirected output interleaves
// with the command responses.
func outputToFile(line string) bool {
	upper := strings.ToUpper(line)
	if strings.HasPrefix(upper, "/OUT") {
		fields := strings.Split(strings.TrimSpace(upper), ",")
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "TERM" {
			return true
		}
		return false
	}
	return strings.HasPrefix(upper, "*CFO") // *CFOPEN
}

// outputToDefault reports whether the line restores output to the terminal.
func outputToDefault(line string) bool {
	upper := strings.ToUpper(line)
	if strings.HasPrefix(upper, "/OUT") {
		fields := strings.Split(strings.TrimSpace(upper), ",")
		if len(fields) == 1 {
			return true
		}
		return strings.TrimSpace(fields[1]) == "TERM"
	}
	return strings.HasPrefix(upper, "*CFC") // *CFCLOSE
}

func (t *Translator) startFunction(name string) {
	t.functions = append(t.functions, name)
	t.storeEmptyLine()
	t.storeEmptyLine()
	t.inFunction = true

	spacing := strings.Repeat(" ", len(name)+5)
	line := fmt.Sprintf("%sdef %s(%s,\n", t.indent, name, argDefaults(1, 6))
	line += fmt.Sprintf("%s%s,\n", spacing, argDefaults(7, 12))
	line += fmt.Sprintf("%s%s):", spacing, argDefaults(13, maxMacroArgs))
	t.appendLine(line)
	t.indent += indentUnit
}

func argDefaults(from, to int) string {
	args := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		args = append(args, fmt.Sprintf("ARG%d=''", i))
	}
	return strings.Join(args, ", ")
}

func (t *Translator) storeUnderscoredRunCommand(command string) {
	t.storeRawCommand(command, true)
}

func (t *Translator) storeRunCommand(command string) {
	t.storeRawCommand(command, false)
}

// storeRawCommand emits a pass-through run call. Inside a function body,
// macro ARG placeholders become f-string slots bound to the function
// parameters.
func (t *Translator) storeRawCommand(command string, underscored bool) {
	underscore := ""
	if underscored {
		underscore = "_"
	}

	command = strings.TrimSpace(command)

	var line string
	switch {
	case t.inFunction && strings.Contains(command, "ARG"):
		command = argPlaceholder.ReplaceAllString(command, "{ARG${1}}")
		line = fmt.Sprintf(`%s%s.%srun(f"%s")`, t.indent, objName, underscore, command)
	case t.comment != "":
		line = fmt.Sprintf(`%s%s.%srun("%s")  # %s`, t.indent, objName, underscore, command, t.comment)
	default:
		line = fmt.Sprintf(`%s%s.%srun("%s")`, t.indent, objName, underscore, command)
	}
	t.appendLine(line)
}

func (t *Translator) storeComment() {
	t.appendLine(fmt.Sprintf("%s# %s", t.indent, t.comment))
}

func (t *Translator) storeEmptyLine() {
	t.appendLine("")
}

func (t *Translator) storePythonCommand(command string) {
	t.appendLine(t.indent + command)
}

// parseArguments renders command parameters: numeric literals stay bare,
// ARG placeholders inside a function body stay bare, everything else is
// quoted (stripping pre-existing quotes first).
func (t *Translator) parseArguments(parameters []string) string {
	parsed := make([]string, 0, len(parameters))
	for _, p := range parameters {
		p = strings.TrimSpace(p)
		switch {
		case isFloat(p) && !strings.EqualFold(p, "INF"):
			parsed = append(parsed, p)
		case t.inFunction && strings.Contains(p, "ARG"):
			parsed = append(parsed, p)
		default:
			if len(p) >= 2 && p[0] == '\'' && p[len(p)-1] == '\'' {
				p = p[1 : len(p)-1]
			}
			// Plain quote wrapping. Escaping happens once, at save time,
			// when WriteScript doubles backslashes.
			parsed = append(parsed, fmt.Sprintf(`"%s"`, p))
		}
	}
	return strings.Join(parsed, ", ")
}

// storeCommand emits a structured method call with parsed parameters.
func (t *Translator) storeCommand(function string, parameters []string) {
	params := t.parseArguments(parameters)
	var line string
	if t.comment != "" {
		line = fmt.Sprintf("%s%s.%s(%s)  # %s", t.indent, objName, function, params, t.comment)
	} else {
		line = fmt.Sprintf("%s%s.%s(%s)", t.indent, objName, function, params)
	}
	t.appendLine(line)
}

func (t *Translator) startNonInteractive() {
	t.nonInteractiveLevel++
	if t.nonInteractive {
		return
	}
	t.appendLine(fmt.Sprintf("%swith %s.non_interactive:", t.indent, objName))
	t.nonInteractive = true
	t.indent += indentUnit
}

func (t *Translator) endNonInteractive() {
	t.nonInteractiveLevel--
	if t.nonInteractiveLevel <= 0 {
		t.dedent()
		t.nonInteractive = false
	}
}

func (t *Translator) startChainedCommands() {
	t.chainedLevel++
	if t.chained {
		return
	}
	t.appendLine(fmt.Sprintf("%swith %s.chain_commands:", t.indent, objName))
	t.chained = true
	t.indent += indentUnit
}

func (t *Translator) endChainedCommands() {
	t.chainedLevel--
	if t.chainedLevel <= 0 {
		t.dedent()
		t.chained = false
	}
}

func (t *Translator) dedent() {
	if len(t.indent) >= len(indentUnit) {
		t.indent = t.indent[len(indentUnit):]
	}
}

func (t *Translator) appendLine(line string) {
	if line != "" {
		log.Debug("converted", "line", line)
	}
	t.lines = append(t.lines, line)
}

// getItems splits a command line on commas, ignoring commas nested inside
// parentheses or brackets (array references like VALUE(2,2) stay intact).
func getItems(line string) []string {
	var items []string
	depth := 0
	start := 0
	for i, ch := range line {
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				items = append(items, line[start:i])
				start = i + 1
			}
		}
	}
	items = append(items, line[start:])
	return items
}

// trimEmptyTrailingFields removes trailing empty comma-separated fields.
func trimEmptyTrailingFields(line string) string {
	fields := strings.Split(line, ",")
	end := 0
	for i := len(fields) - 1; i >= 0; i-- {
		if strings.TrimSpace(fields[i]) != "" {
			end = i + 1
			break
		}
	}
	return strings.Join(fields[:end], ",")
}

// tail returns line with the first n bytes removed, or "" when shorter.
func tail(line string, n int) string {
	if len(line) <= n {
		return ""
	}
	return line[n:]
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func contains(list []string, s string) bool {
	for _, each := range list {
		if each == s {
			return true
		}
	}
	return false
}
