package markdown

import (
	"bytes"

	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark/ast"
)

// Tokenize flattens a parsed document into the token stream consumed by the
// outline builder. Every heading yields open, inline and close tokens; every
// other block yields a single Other token.
func Tokenize(doc ast.Node, source []byte) []toc.Token {
	var tokens []toc.Token

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Document:
			return ast.WalkContinue, nil
		case *ast.Heading:
			tokens = append(tokens,
				toc.HeadingOpen(node.Level),
				toc.Inline(headingText(node, source), headingID(node)),
				toc.HeadingClose(node.Level),
			)
			return ast.WalkSkipChildren, nil
		}

		if n.Type() == ast.TypeInline {
			return ast.WalkSkipChildren, nil
		}

		tokens = append(tokens, toc.Other())
		return ast.WalkContinue, nil
	})

	return tokens
}

func headingID(heading *ast.Heading) string {
	value, ok := heading.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := value.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// headingText returns the plain text of a heading. Images and raw HTML do
// not contribute.
func headingText(heading ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Image, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		}
		return ast.WalkContinue, nil
	})

	return string(bytes.TrimSpace(buf.Bytes()))
}
