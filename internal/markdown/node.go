// Package markdown wires the outline builder and the block containers into
// goldmark and renders documentation pages to HTML.
package markdown

import (
	"strconv"

	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark/ast"
)

// KindTOC is the NodeKind of the TOC node.
var KindTOC = ast.NewNodeKind("TOC")

// TOC marks the position of a [[toc]] line. Tokens holds the heading
// stream of the whole document it belongs to.
type TOC struct {
	ast.BaseBlock

	Tokens []toc.Token
}

// Kind implements Node.Kind.
func (n *TOC) Kind() ast.NodeKind {
	return KindTOC
}

// Dump implements Node.Dump.
func (n *TOC) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewTOC returns a new TOC node.
func NewTOC() *TOC {
	return &TOC{BaseBlock: ast.BaseBlock{}}
}

// KindContainer is the NodeKind of the Container node.
var KindContainer = ast.NewNodeKind("Container")

// Container is a ::: fenced message block.
type Container struct {
	ast.BaseBlock

	Name  string
	Title string
	// Fence is the number of colons of the opening line. Only a closing
	// line at least as long ends the block.
	Fence int
}

// Kind implements Node.Kind.
func (n *Container) Kind() ast.NodeKind {
	return KindContainer
}

// Dump implements Node.Dump.
func (n *Container) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Name": n.Name, "Title": n.Title, "Fence": strconv.Itoa(n.Fence)}, nil)
}

// NewContainer returns a new Container node.
func NewContainer(name, title string, fence int) *Container {
	return &Container{Name: name, Title: title, Fence: fence}
}
