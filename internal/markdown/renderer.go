package markdown

import (
	"context"

	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/toc"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type tocRenderer struct {
	builder *toc.Builder
	logger  logging.Logger
}

func (r *tocRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTOC, r.renderTOC)
}

func (r *tocRenderer) renderTOC(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	node := n.(*TOC)
	outline, err := r.builder.BuildOutline(node.Tokens)
	if err != nil {
		r.logger.Warn(context.Background(), err, "Table of contents replaced by an empty outline")
		outline = toc.EmptyOutline
	}

	_, _ = w.WriteString(toc.RenderNav(outline))
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

type containerRenderer struct{}

func (r *containerRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindContainer, r.renderContainer)
}

func (r *containerRenderer) renderContainer(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node := n.(*Container)
	if !entering {
		_, _ = w.WriteString("</div>\n</article>\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<article class="message is-`)
	_, _ = w.WriteString(node.Name)
	_, _ = w.WriteString("\">\n")
	if node.Title != "" {
		_, _ = w.WriteString(`<div class="message-header"><p>`)
		_, _ = w.Write(util.EscapeHTML([]byte(node.Title)))
		_, _ = w.WriteString("</p></div>\n")
	}
	_, _ = w.WriteString("<div class=\"message-body\">\n")
	return ast.WalkContinue, nil
}
