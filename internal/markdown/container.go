package markdown

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ContainerNames are the message styles a ::: block may use.
var ContainerNames = []string{"primary", "info", "success", "warning", "danger"}

func isContainerName(name string) bool {
	for _, known := range ContainerNames {
		if name == known {
			return true
		}
	}
	return false
}

type containerBlockParser struct{}

var defaultContainerBlockParser = &containerBlockParser{}

// NewContainerBlockParser returns the block parser for
//
//	::: warning Optional title
//	content
//	:::
//
// The directive form :::warning{title="Optional title"} is accepted too.
func NewContainerBlockParser() parser.BlockParser {
	return defaultContainerBlockParser
}

func (b *containerBlockParser) Trigger() []byte {
	return []byte{':'}
}

func (b *containerBlockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()

	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}

	name, title, fence, ok := parseContainerOpening(line[pos:])
	if !ok {
		return nil, parser.NoChildren
	}

	skipLine(reader, line, segment)
	return NewContainer(name, title, fence), parser.HasChildren
}

func (b *containerBlockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()

	fence := closingFence(line)
	if fence < node.(*Container).Fence || deferClosing(node, fence, pc) {
		return parser.Continue | parser.HasChildren
	}

	skipLine(reader, line, segment)
	return parser.Close
}

// deferClosing reports whether a closing line belongs to a block opened
// inside node. goldmark asks the outermost open block first, so a nested
// container or an open code fence must get the line before node does.
func deferClosing(node ast.Node, fence int, pc parser.Context) bool {
	opened := pc.OpenedBlocks()
	inside := false
	for _, block := range opened {
		if block.Node == node {
			inside = true
			continue
		}
		if !inside {
			continue
		}
		switch n := block.Node.(type) {
		case *ast.FencedCodeBlock:
			return true
		case *Container:
			if fence >= n.Fence {
				return true
			}
		}
	}
	return false
}

func (b *containerBlockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (b *containerBlockParser) CanInterruptParagraph() bool {
	return true
}

func (b *containerBlockParser) CanAcceptIndentedLine() bool {
	return false
}

// skipLine consumes the rest of the line, leaving the line ending.
func skipLine(reader text.Reader, line []byte, segment text.Segment) {
	n := segment.Len()
	if len(line) > 0 && line[len(line)-1] == '\n' {
		n--
	}
	reader.Advance(n)
}

func countColons(line []byte) int {
	n := 0
	for n < len(line) && line[n] == ':' {
		n++
	}
	return n
}

// closingFence returns the colon count of a line made only of three or more
// colons, and 0 for any other line.
func closingFence(line []byte) int {
	trimmed := util.TrimRightSpace(util.TrimLeftSpace(line))
	n := countColons(trimmed)
	if n < 3 || n != len(trimmed) {
		return 0
	}
	return n
}

func parseContainerOpening(line []byte) (name, title string, fence int, ok bool) {
	n := countColons(line)
	if n < 3 {
		return "", "", 0, false
	}

	rest := util.TrimLeftSpace(util.TrimRightSpace(line[n:]))
	end := 0
	for end < len(rest) && rest[end] >= 'a' && rest[end] <= 'z' {
		end++
	}
	name = string(rest[:end])
	if !isContainerName(name) {
		return "", "", 0, false
	}

	rest = rest[end:]
	if len(rest) > 0 && rest[0] == '{' {
		return name, directiveTitle(rest), n, true
	}
	if len(rest) > 0 && rest[0] != ' ' && rest[0] != '\t' {
		return "", "", 0, false
	}
	return name, string(util.TrimLeftSpace(rest)), n, true
}

// directiveTitle extracts title="..." from a {key="value"} attribute list.
func directiveTitle(attrs []byte) string {
	key := []byte(`title="`)
	start := bytes.Index(attrs, key)
	if start < 0 {
		return ""
	}
	value := attrs[start+len(key):]
	end := bytes.IndexByte(value, '"')
	if end < 0 {
		return ""
	}
	return string(value[:end])
}
