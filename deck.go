package apdl2py

// Deck represents a parsed markdown document containing pragmas and APDL
// code blocks, and any other required metadata about the source file
type Deck struct {
	// Metadata about the source file
	Metadata MetaData
	// Document-level pragmas controlling conversion options
	Pragmas Pragma
	// The extracted APDL blocks
	Blocks []CodeBlock
}

type MetaData struct {
	// The absolute source file path
	AbsSource string
}

type PragmaKey string

const (
	PragmaOutput       PragmaKey = "output"
	PragmaOnlyCommands PragmaKey = "only_commands"
)

type Pragma struct {
	// The python file output path, relative to the source markdown file
	Output string
	// Strip the header, imports and exit call from the generated script
	OnlyCommands bool
}

type CodeBlock struct {
	// The APDL source that was parsed from the markdown fence
	Code string
	// The markdown file the block came from
	Source string
}

// APDL returns the concatenated APDL source of every block in order.
func (d *Deck) APDL() string {
	var out string
	for _, b := range d.Blocks {
		out += b.Code
	}
	return out
}
