// Package plugins defines the ordered chain of markdown and HTML
// transformations applied to every page.
//
// A plugin contributes to one or both stages of page rendering: a
// MarkdownPlugin extends the goldmark parser and renderer, an HTMLPlugin
// rewrites the rendered HTML tree. Plugins are created from named factories
// held in a Registry; the configured list of names decides which plugins run
// and in which order.
package plugins

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/yuin/goldmark"
)

// Plugin represents a nacara plugin
type Plugin interface {
	// Name returns the unique name of the plugin
	Name() string

	// Description returns a description of what the plugin does
	Description() string
}

// MarkdownPlugin extends the markdown stage.
type MarkdownPlugin interface {
	Plugin

	// Extend adds parsers, AST transformers or renderers to m
	Extend(m goldmark.Markdown)
}

// HTMLPlugin rewrites the HTML of a rendered page.
type HTMLPlugin interface {
	Plugin

	// Transform modifies doc in place
	Transform(ctx context.Context, doc *goquery.Document, page *Page) error
}

// Page identifies the page being rendered.
type Page struct {
	ID    string
	Path  string
	Title string
}

// Factory creates a plugin for the given configuration.
type Factory func(cfg *config.Config, logger logging.Logger) (Plugin, error)
