package markdown

import (
	"bytes"
	"context"

	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Result is a rendered page body.
type Result struct {
	HTML []byte

	// Tokens is the heading stream of the page, used for the outline shown
	// next to the content.
	Tokens []toc.Token
}

// Engine converts markdown to HTML. It is safe for concurrent use.
type Engine struct {
	md      goldmark.Markdown
	builder *toc.Builder
	logger  logging.Logger
}

// New creates an engine with the given goldmark extensions. Headings always
// receive generated ids so that outlines and anchors can link to them.
func New(opts toc.Options, logger logging.Logger, extenders ...goldmark.Extender) (*Engine, error) {
	builder, err := toc.NewBuilder(opts)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, err.Error())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Engine{
		md:      md,
		builder: builder,
		logger:  logger.WithComponent("markdown"),
	}, nil
}

// Render converts one page.
func (e *Engine) Render(source []byte) (*Result, error) {
	doc := e.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "cannot render markdown", err)
	}

	return &Result{
		HTML:   buf.Bytes(),
		Tokens: Tokenize(doc, source),
	}, nil
}

// Convert renders source and returns only the HTML.
func (e *Engine) Convert(source []byte) ([]byte, error) {
	result, err := e.Render(source)
	if err != nil {
		return nil, err
	}
	return result.HTML, nil
}

// Outline returns the outline of a page, or the empty outline when its
// headings nest too deeply.
func (e *Engine) Outline(tokens []toc.Token) string {
	outline, err := e.builder.BuildOutline(tokens)
	if err != nil {
		e.logger.Warn(context.Background(), err, "Page outline replaced by an empty outline")
		return toc.EmptyOutline
	}
	return outline
}

// OutlineOf parses source and returns its outline. Unlike Outline it reports
// malformed documents to the caller.
func (e *Engine) OutlineOf(source []byte) (string, error) {
	doc := e.md.Parser().Parse(text.NewReader(source))
	return e.builder.BuildOutline(Tokenize(doc, source))
}
