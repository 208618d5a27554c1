package plugins

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/logging"
	"github.com/yuin/goldmark"
)

// Chain is an ordered list of resolved plugins.
type Chain struct {
	plugins []Plugin
	logger  logging.Logger
}

// NewChain builds a chain from already created plugins.
func NewChain(logger logging.Logger, plugins ...Plugin) *Chain {
	return &Chain{plugins: plugins, logger: logger.WithComponent("plugins")}
}

// Plugins returns the plugins in execution order.
func (c *Chain) Plugins() []Plugin {
	return c.plugins
}

// Names returns the plugin names in execution order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.plugins))
	for i, plugin := range c.plugins {
		names[i] = plugin.Name()
	}
	return names
}

// Extenders returns the markdown stage of the chain.
func (c *Chain) Extenders() []goldmark.Extender {
	var extenders []goldmark.Extender
	for _, plugin := range c.plugins {
		if mp, ok := plugin.(MarkdownPlugin); ok {
			extenders = append(extenders, mp)
		}
	}
	return extenders
}

// HasHTMLStage reports whether any plugin rewrites HTML.
func (c *Chain) HasHTMLStage() bool {
	for _, plugin := range c.plugins {
		if _, ok := plugin.(HTMLPlugin); ok {
			return true
		}
	}
	return false
}

// Transform runs the HTML stage over a rendered page body. The body is
// returned unchanged when no plugin rewrites HTML.
func (c *Chain) Transform(ctx context.Context, body []byte, page *Page) ([]byte, error) {
	if !c.HasHTMLStage() {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "cannot parse rendered HTML", err).WithPage(page.ID)
	}

	for _, plugin := range c.plugins {
		hp, ok := plugin.(HTMLPlugin)
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := hp.Transform(ctx, doc, page); err != nil {
			return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, fmt.Sprintf("plugin %s failed", hp.Name()), err).WithPage(page.ID)
		}
		c.logger.Debug(ctx, "HTML plugin applied", "plugin", hp.Name(), "page", page.ID)
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "cannot serialize HTML", err).WithPage(page.ID)
	}
	return []byte(out), nil
}
