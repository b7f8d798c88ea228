package apdl2py

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// convertOnly converts input with header, imports and exit suppressed so
// tests see nothing but the translated commands.
func convertOnly(t *testing.T, input string) string {
	t.Helper()

	opts := DefaultOptions()
	opts.OnlyCommands = true

	out, err := ConvertBlock(input, opts)
	require.NoError(t, err)
	return out
}

func TestTranslateSingleCommands(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "slash command resolved by prefix",
			input:    "/DELETE,TABLE_1",
			expected: `mapdl.slashdelete("TABLE_1")`,
		},
		{
			name:     "empty mid arguments stay raw",
			input:    "PROD,4,3, , ,FORCE , , ,-1.0,1,1,",
			expected: `mapdl.run("PROD,4,3, , ,FORCE , , ,-1.0,1,1")`,
		},
		{
			name:     "forced mapping beats prefix match",
			input:    "SECT,1,SHELL",
			expected: `mapdl.sectype(1, "SHELL")`,
		},
		{
			name:     "inline comment carried over",
			input:    "SECD,.00005,1 ! PLATE THICKNESS",
			expected: `mapdl.secdata(.00005, 1)  # PLATE THICKNESS`,
		},
		{
			name:     "empty arguments become empty strings",
			input:    "/view,1,,1,  ,1",
			expected: `mapdl.view(1, "", 1, "", 1)`,
		},
		{
			name:     "star command with quoted argument",
			input:    "*vget,1,,'asdf',",
			expected: `mapdl.starvget(1, "", "asdf")`,
		},
		{
			name:     "slash command without arguments",
			input:    "/solu",
			expected: `mapdl.slashsolu()`,
		},
		{
			name:     "trailing tab stripped",
			input:    "*STAT,UXFEA2\t",
			expected: `mapdl.starstatus("UXFEA2")`,
		},
		{
			name:     "axis label keeps embedded commas",
			input:    "/AXLAB,X,NORMALIZED TIME,TAU=ALPHA**2*D*t",
			expected: `mapdl.axlab("X", "NORMALIZED TIME,TAU=ALPHA**2*D*t")`,
		},
		{
			name:     "use without a known macro",
			input:    "*USE,LOAD",
			expected: `mapdl.use("LOAD")`,
		},
		{
			name:     "title joins remaining fields",
			input:    "/TITLE, Test title",
			expected: `mapdl.title("Test title")`,
		},
		{
			name:     "com keeps text verbatim",
			input:    "/COM,hello there",
			expected: `mapdl.com("hello there")`,
		},
		{
			name:     "old style comment",
			input:    "C***, An old comment",
			expected: `mapdl.com("An old comment")`,
		},
		{
			name:     "keypoint",
			input:    "K,1,0,0,0",
			expected: `mapdl.k(1, 0, 0, 0)`,
		},
		{
			name:     "finish",
			input:    "FINISH",
			expected: `mapdl.finish()`,
		},
		{
			name:     "prep7 exact",
			input:    "/PREP7",
			expected: `mapdl.prep7()`,
		},
		{
			name:     "parameter assignment stays raw",
			input:    "aa = 1",
			expected: `mapdl.run("aa = 1")`,
		},
		{
			name:     "full line comment",
			input:    "!comment",
			expected: `# comment`,
		},
		{
			name:     "unknown command stays raw",
			input:    "NOTACOMMAND,1,2",
			expected: `mapdl.run("NOTACOMMAND,1,2")`,
		},
		{
			name:     "nopr is discouraged and underscored",
			input:    "/NOPR",
			expected: `mapdl._run("/NOPR")  # It is not recommended to use '/NOPR' in a normal PyMAPDL session.`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, convertOnly(t, tc.input))
		})
	}
}

func TestTranslateCWDWithQuotesFails(t *testing.T) {
	opts := DefaultOptions()
	opts.OnlyCommands = true

	_, err := ConvertBlock("/CWD,'/tmp/dir'", opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "single quotes")
}

func TestTranslateBangInsideQuotesIsNotAComment(t *testing.T) {
	// A literal bang argument must survive the comment check.
	out := convertOnly(t, "/COM,'!'")
	require.Equal(t, `mapdl.com("!")`, out)
}

func TestTranslateDoLoop(t *testing.T) {
	input := strings.Join([]string{
		"*DO,i,1,10",
		"d,i,all,0",
		"*ENDDO",
	}, "\n")

	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		`    mapdl.run("*DO,i,1,10")`,
		`    mapdl.d("i", "all", 0)`,
		`    mapdl.run("*ENDDO")`,
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateIfBlock(t *testing.T) {
	input := strings.Join([]string{
		"*if,aa,eq,1",
		"/prep7",
		"*endif",
	}, "\n")

	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		`    mapdl.run("*if,aa,eq,1")`,
		`    mapdl.prep7()`,
		`    mapdl.run("*endif")`,
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateChainedCommands(t *testing.T) {
	expected := strings.Join([]string{
		"with mapdl.chain_commands:",
		"    mapdl.prep7()",
		"    mapdl.k(1, 0, 0, 0)",
	}, "\n")

	require.Equal(t, expected, convertOnly(t, "/PREP7 $K,1,0,0,0"))
}

func TestTranslateOutputRedirection(t *testing.T) {
	input := strings.Join([]string{
		"/out,test,inp",
		"*get,dummy,node,0,u,x",
		"/out",
	}, "\n")

	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		`    mapdl.run("/out,test,inp")`,
		`    mapdl.run("*get,dummy,node,0,u,x")`,
		`    mapdl.run("/out")`,
		`    mapdl.run("/GOPR")`,
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateGetOutsideNonInteractive(t *testing.T) {
	out := convertOnly(t, "*get,dummy,node,0,u,x")
	require.Equal(t, `mapdl.get("dummy", "node", 0, "u", "x")`, out)
}

func TestTranslateExitInsideNonInteractive(t *testing.T) {
	input := strings.Join([]string{
		"/OUT,scratch",
		"/EXIT",
	}, "\n")

	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		`    mapdl.run("/OUT,scratch")`,
		`    mapdl.com("Skipping: /EXIT")`,
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateVwriteWithFormatLine(t *testing.T) {
	input := strings.Join([]string{
		"*VWRITE,label(1),value(1,1)",
		"(1X,A8,'   ',F10.1)",
		"FINISH",
	}, "\n")

	// The format line ends the batching context, so the next command
	// returns to top level.
	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		`    mapdl.run("*VWRITE,label(1),value(1,1)")`,
		`    mapdl.run("(1X,A8,'   ',F10.1)")`,
		"mapdl.finish()",
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateRepeatPullsPreviousCommand(t *testing.T) {
	input := strings.Join([]string{
		"K,1,0,0,0",
		"*REPEAT,5,1",
	}, "\n")

	expected := strings.Join([]string{
		"with mapdl.non_interactive:",
		"    mapdl.k(1, 0, 0, 0)",
		`    mapdl.run("*REPEAT,5,1")`,
	}, "\n")

	require.Equal(t, expected, convertOnly(t, input))
}

func TestTranslateCommentSolve(t *testing.T) {
	opts := DefaultOptions()
	opts.OnlyCommands = true
	opts.CommentSolve = true

	out, err := ConvertBlock("SOLVE", opts)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"mapdl.com(\"The following line has been commented due to `comment_solve`:\")",
		`mapdl.com("SOLVE")`,
	}, "\n")
	require.Equal(t, expected, out)
}

func TestTranslateMacroAsFunction(t *testing.T) {
	input := strings.Join([]string{
		"*CREATE,SLV",
		"SOLVE",
		"*END",
		"",
		"*USE,SLV",
	}, "\n")

	lines, err := ConvertLines(strings.Split(input, "\n"), onlyCommandOptions())
	require.NoError(t, err)

	defLine := "def SLV(ARG1='', ARG2='', ARG3='', ARG4='', ARG5='', ARG6='',\n" +
		"        ARG7='', ARG8='', ARG9='', ARG10='', ARG11='', ARG12='',\n" +
		"        ARG13='', ARG14='', ARG15='', ARG16='', ARG17='', ARG18=''):"

	expected := []string{
		"",
		"",
		defLine,
		"    mapdl.solve()",
		"",
		"",
		"",
		"SLV()",
	}

	if diff := cmp.Diff(expected, lines); diff != "" {
		t.Errorf("unexpected translation (-want +got):\n%s", diff)
	}
}

func TestTranslateMacroArguments(t *testing.T) {
	input := strings.Join([]string{
		"*CREATE,MAC",
		"F,ARG1,FX,ARG11",
		"FOO,ARG1,FX,ARG11",
		"*END",
	}, "\n")

	lines, err := ConvertLines(strings.Split(input, "\n"), onlyCommandOptions())
	require.NoError(t, err)

	// Known commands keep structured calls with bare ARG parameters.
	require.Contains(t, lines, `    mapdl.f(ARG1, "FX", ARG11)`)
	// Unknown commands fall back to a run() f-string.
	require.Contains(t, lines, `    mapdl.run(f"FOO,{ARG1},FX,{ARG11}")`)
}

func TestTranslateMacroCallWithArguments(t *testing.T) {
	input := strings.Join([]string{
		"*CREATE,MYMAC",
		"/COM,running",
		"*END",
		"MYMAC,1,FOO",
	}, "\n")

	lines, err := ConvertLines(strings.Split(input, "\n"), onlyCommandOptions())
	require.NoError(t, err)

	require.Contains(t, lines, `MYMAC(1, "FOO")`)
}

func onlyCommandOptions() Options {
	opts := DefaultOptions()
	opts.OnlyCommands = true
	return opts
}

func TestGetItemsIgnoresNestedCommas(t *testing.T) {
	items := getItems("*VWRITE,label(1),value(1,1)")
	require.Equal(t, []string{"*VWRITE", "label(1)", "value(1,1)"}, items)
}

func TestTrimEmptyTrailingFields(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"TOFFST,273.15,,", "TOFFST,273.15"},
		{"F,1,fx,30, , ,", "F,1,fx,30"},
		{"K,1,0,0,0", "K,1,0,0,0"},
		{",,", ""},
	}

	for _, tc := range tests {
		require.Equal(t, tc.expected, trimEmptyTrailingFields(tc.input), "input %q", tc.input)
	}
}

func TestOutputRedirectionDetection(t *testing.T) {
	require.True(t, outputToFile("/OUT,file,txt"))
	require.True(t, outputToFile("*CFOPEN,file"))
	require.False(t, outputToFile("/OUT"))
	require.False(t, outputToFile("/OUT,TERM"))

	require.True(t, outputToDefault("/OUT"))
	require.True(t, outputToDefault("/OUT,TERM"))
	require.True(t, outputToDefault("*CFCLOSE"))
	require.False(t, outputToDefault("/OUT,file"))
}

func TestCmblockTarget(t *testing.T) {
	// 48 items at 8 per line is 6 data lines, plus header and format.
	require.Equal(t, 8, cmblockTarget("CMBLOCK,PRESSURE_AREAS,NODE,    48"))
	// 49 items need a seventh, partial line.
	require.Equal(t, 9, cmblockTarget("CMBLOCK,AREAS,NODE,49"))
	// A parameterized count falls back to sentinel termination.
	require.Equal(t, 0, cmblockTarget("CMBLOCK,AREAS,NODE,NCOUNT"))
}

func TestParseArguments(t *testing.T) {
	tr, err := NewTranslator(onlyCommandOptions())
	require.NoError(t, err)

	tests := []struct {
		params   []string
		expected string
	}{
		{[]string{"1", "2.5", "-1.0e3"}, `1, 2.5, -1.0e3`},
		{[]string{"  TEXT  "}, `"TEXT"`},
		{[]string{"'quoted'"}, `"quoted"`},
		{[]string{"INF"}, `"INF"`},
		{[]string{""}, `""`},
		// Backslashes pass through untouched; WriteScript doubles them
		// exactly once at save time.
		{[]string{`C:\models\plate`}, `"C:\models\plate"`},
	}

	for _, tc := range tests {
		require.Equal(t, tc.expected, tr.parseArguments(tc.params), "params %v", tc.params)
	}
}

func TestFindMatchResolution(t *testing.T) {
	tests := []struct {
		cmd      string
		expected string
	}{
		{"cle", "clear"},
		{"secd", "secdata"},
		{"slashdel", "slashdelete"},
		{"slashsol", "slashsolu"},
		{"starsta", "starstatus"},
		{"starvge", "starvget"},
		{"zzzz", ""},
	}

	for _, tc := range tests {
		require.Equal(t, tc.expected, findMatch(tc.cmd), "cmd %q", tc.cmd)
	}
}
