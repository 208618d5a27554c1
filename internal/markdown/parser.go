package markdown

import (
	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type tocBlockParser struct{}

var defaultTOCBlockParser = &tocBlockParser{}

// NewTOCBlockParser returns the block parser recognising [[toc]] lines.
func NewTOCBlockParser() parser.BlockParser {
	return defaultTOCBlockParser
}

func (b *tocBlockParser) Trigger() []byte {
	return []byte{'['}
}

func (b *tocBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()

	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	if _, ok := toc.DetectMarker(line, pos); !ok {
		return nil, parser.NoChildren
	}

	skipLine(reader, line, segment)
	return NewTOC(), parser.NoChildren
}

func (b *tocBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (b *tocBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *tocBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *tocBlockParser) CanAcceptIndentedLine() bool {
	return false
}
