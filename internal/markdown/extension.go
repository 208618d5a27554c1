package markdown

import (
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// TOCExtension renders [[toc]] lines as the outline of the page.
type TOCExtension struct {
	builder *toc.Builder
	logger  logging.Logger
}

// NewTOCExtension validates opts and returns the extension.
func NewTOCExtension(opts toc.Options, logger logging.Logger) (*TOCExtension, error) {
	builder, err := toc.NewBuilder(opts)
	if err != nil {
		return nil, err
	}
	return &TOCExtension{builder: builder, logger: logger.WithComponent("toc")}, nil
}

// Extend implements goldmark.Extender.
func (e *TOCExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(NewTOCBlockParser(), 150)),
		parser.WithASTTransformers(util.Prioritized(&tocTransformer{}, 999)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&tocRenderer{builder: e.builder, logger: e.logger}, 500)),
	)
}

type containerExtension struct{}

// Containers renders ::: message blocks.
var Containers goldmark.Extender = &containerExtension{}

// Extend implements goldmark.Extender.
func (e *containerExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(NewContainerBlockParser(), 160)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&containerRenderer{}, 500)),
	)
}
