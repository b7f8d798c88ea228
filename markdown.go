package apdl2py

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var pragmaRegex = regexp.MustCompile(`^<!--\s*@pragma\s+(\w+)\s*:\s*([^>]+?)\s*-->$`)

// fenceLanguages are the fence info strings treated as APDL source.
var fenceLanguages = map[string]bool{
	"apdl":  true,
	"ansys": true,
	"mapdl": true,
}

// Parser extracts APDL code blocks and pragmas from a markdown deck.
type Parser struct {
	gm goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(),
	}
}

// ParseDeck parses a markdown document into its APDL blocks and pragmas.
// A document without a single APDL fence is an error, since converting it
// would produce an empty script.
func (p *Parser) ParseDeck(r io.Reader, md MetaData) (*Deck, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	deck := &Deck{
		Metadata: md,
	}

	hasWalkedOtherNodes := false
	root := p.gm.Parser().Parse(text.NewReader(content))

	if err := p.walkAst(root, content, &hasWalkedOtherNodes, deck); err != nil {
		return nil, err
	}

	if len(deck.Blocks) == 0 {
		return nil, fmt.Errorf("no apdl code blocks found in document")
	}

	return deck, nil
}

// walkAst walks the AST of a markdown document and extracts pragmas and
// code blocks from the document
func (p *Parser) walkAst(root ast.Node, content []byte, hasWalkedOtherNodes *bool, deck *Deck) error {
	return ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if _, ok := n.(*ast.HTMLBlock); !ok {
			if _, isDoc := n.(*ast.Document); !isDoc {
				// Pragmas only count at the top of the file. Once any other
				// node has been walked, later comments are just comments.
				*hasWalkedOtherNodes = true
			}
		}

		switch node := n.(type) {
		case *ast.HTMLBlock:
			if err := p.handleHTMLBlock(node, content, hasWalkedOtherNodes, deck); err != nil {
				return ast.WalkStop, err
			}
		case *ast.FencedCodeBlock:
			p.handleCodeBlock(node, content, deck)
		}

		return ast.WalkContinue, nil
	})
}

// handleHTMLBlock parses pragma values from HTML comments at the top of
// the markdown file. For example:
//
//	<!-- @pragma output: bracket.py -->
//	<!-- @pragma only_commands: true -->
//
// sets Pragma.Output and Pragma.OnlyCommands. Comments appearing after any
// other markdown content are ignored.
func (p *Parser) handleHTMLBlock(hb *ast.HTMLBlock, content []byte, hasWalkedOtherNodes *bool, deck *Deck) error {
	if *hasWalkedOtherNodes || hb.HTMLBlockType != ast.HTMLBlockType2 {
		return nil
	}
	var buf bytes.Buffer
	l := hb.Lines().Len()
	for i := 0; i < l; i++ {
		line := hb.Lines().At(i)
		buf.Write(line.Value(content))
	}
	return p.extractPragmaFromLine(&deck.Pragmas, buf.String())
}

func (p *Parser) handleCodeBlock(cb *ast.FencedCodeBlock, content []byte, deck *Deck) {
	lang := strings.ToLower(string(cb.Language(content)))
	if !fenceLanguages[lang] {
		return
	}

	var buf bytes.Buffer
	l := cb.Lines().Len()
	log.Debug("parsing apdl code block", "lines", l)
	for i := 0; i < l; i++ {
		line := cb.Lines().At(i)
		buf.Write(line.Value(content))
	}

	deck.Blocks = append(deck.Blocks, CodeBlock{
		Code:   buf.String(),
		Source: deck.Metadata.AbsSource,
	})
}

// extractPragmaFromLine parses a single pragma comment. Unknown keys are
// ignored so decks stay forward compatible; a malformed value is an error.
func (p *Parser) extractPragmaFromLine(pragma *Pragma, line string) error {
	line = strings.TrimSpace(line)

	matches := pragmaRegex.FindStringSubmatch(line)
	if len(matches) != 3 {
		return nil
	}

	key := matches[1]
	value := matches[2]

	switch key {
	case string(PragmaOutput):
		pragma.Output = value
	case string(PragmaOnlyCommands):
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("could not parse only_commands pragma value: %w", err)
		}
		pragma.OnlyCommands = b
	default:
		log.Debug("unknown pragma key", "key", key)
	}

	return nil
}
