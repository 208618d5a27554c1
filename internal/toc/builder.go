package toc

import (
	"html"
	"strings"
)

const (
	outlineOpen  = `<ul class="toc-headings">`
	outlineClose = `</ul>`

	// EmptyOutline is the outline of a document without qualifying headings.
	EmptyOutline = outlineOpen + outlineClose
)

// Node is one heading of the outline tree.
type Node struct {
	Level    int
	AnchorID string
	Text     string
	Children []*Node
}

// Builder turns token streams into outlines. A Builder holds no per-document
// state and is safe for concurrent use.
type Builder struct {
	opts Options
}

// NewBuilder creates a builder with validated options.
func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts}, nil
}

var defaultBuilder = &Builder{opts: DefaultOptions()}

// Default returns a builder using DefaultOptions.
func Default() *Builder {
	return defaultBuilder
}

// BuildOutline renders the outline of a complete token sequence with the
// default options.
func BuildOutline(tokens []Token) (string, error) {
	return defaultBuilder.BuildOutline(tokens)
}

// Options returns the builder configuration.
func (b *Builder) Options() Options {
	return b.opts
}

// BuildOutline renders the outline of a complete token sequence.
func (b *Builder) BuildOutline(tokens []Token) (string, error) {
	nodes, err := b.BuildTree(tokens)
	if err != nil {
		return "", err
	}
	return b.Render(nodes), nil
}

// BuildTree groups the qualifying headings of tokens into a tree.
//
// Each frame owns one sibling list. The first heading of a frame fixes its
// level; a deeper heading opens a child frame under the last sibling and a
// shallower one hands control back to the caller with the index of that
// heading. When the top frame returns early because the document starts
// deeper than it continues, a new top frame resumes at that index, so no
// heading is dropped.
func (b *Builder) BuildTree(tokens []Token) ([]*Node, error) {
	var roots []*Node
	for i := 0; i < len(tokens); {
		nodes, next, err := b.frame(tokens, i, 1)
		if err != nil {
			return nil, err
		}
		roots = append(roots, nodes...)
		i = next
	}
	return roots, nil
}

func (b *Builder) frame(tokens []Token, pos, depth int) ([]*Node, int, error) {
	if depth > b.opts.MaxNesting {
		return nil, pos, &MalformedDocumentError{Limit: b.opts.MaxNesting, Index: pos}
	}

	var (
		nodes        []*Node
		currentLevel int
	)

	i := pos
	for i < len(tokens) {
		level, ok := b.qualifies(tokens, i)
		if !ok {
			i++
			continue
		}

		switch {
		case currentLevel == 0:
			currentLevel = level
		case level > currentLevel:
			// Consecutive child frames, as for levels 2,4,3, merge into one list.
			children, next, err := b.frame(tokens, i, depth+1)
			if err != nil {
				return nil, next, err
			}
			last := nodes[len(nodes)-1]
			last.Children = append(last.Children, children...)
			i = next
			continue
		case level < currentLevel:
			return nodes, i, nil
		}

		heading := tokens[i-1]
		nodes = append(nodes, &Node{
			Level:    level,
			AnchorID: heading.AnchorID,
			Text:     heading.Content,
		})
		i++
	}

	return nodes, i, nil
}

// qualifies reports whether tokens[i] closes a heading that belongs in the
// outline, and returns its level.
func (b *Builder) qualifies(tokens []Token, i int) (int, bool) {
	token := tokens[i]
	if token.Kind != KindHeadingClose || i == 0 || !tokens[i-1].hasText() {
		return 0, false
	}
	if token.Level < 2 || token.Level < b.opts.MinLevel || token.Level > b.opts.MaxLevel {
		return 0, false
	}
	return token.Level, true
}

// Render serializes an outline tree. Headings at MinLevel become toc-label
// sections followed by their children; deeper headings are list items that
// wrap their children.
func (b *Builder) Render(nodes []*Node) string {
	var sb strings.Builder
	b.renderList(&sb, nodes)
	return sb.String()
}

func (b *Builder) renderList(sb *strings.Builder, nodes []*Node) {
	sb.WriteString(outlineOpen)
	for _, node := range nodes {
		if node.Level == b.opts.MinLevel {
			sb.WriteString(`<div class="toc-label">`)
			writeLink(sb, node)
			sb.WriteString(`</div>`)
			if len(node.Children) > 0 {
				b.renderList(sb, node.Children)
			}
			continue
		}

		sb.WriteString(`<li>`)
		writeLink(sb, node)
		if len(node.Children) > 0 {
			b.renderList(sb, node.Children)
		}
		sb.WriteString(`</li>`)
	}
	sb.WriteString(outlineClose)
}

func writeLink(sb *strings.Builder, node *Node) {
	sb.WriteString(`<a href="#`)
	sb.WriteString(html.EscapeString(node.AnchorID))
	sb.WriteString(`">`)
	sb.WriteString(html.EscapeString(strings.TrimSpace(node.Text)))
	sb.WriteString(`</a>`)
}

// RenderNav wraps an outline in the navigation container emitted in place of
// the marker.
func RenderNav(outline string) string {
	return `<nav class="toc-container">` + outline + `</nav>`
}
