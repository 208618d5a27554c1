package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// tocTransformer hands the document's token stream to each TOC node. The
// stream is computed once per document and only when a marker exists.
type tocTransformer struct{}

func (t *tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var markers []*TOC

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if marker, ok := n.(*TOC); ok {
			markers = append(markers, marker)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if len(markers) == 0 {
		return
	}

	tokens := Tokenize(doc, reader.Source())
	for _, marker := range markers {
		marker.Tokens = tokens
	}
}
