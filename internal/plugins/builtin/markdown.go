package builtin

import (
	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/markdown"
	"github.com/nacara/nacara/internal/plugins"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// extenderPlugin adapts a goldmark extension to the plugin chain.
type extenderPlugin struct {
	name        string
	description string
	extender    goldmark.Extender
}

func (p *extenderPlugin) Name() string        { return p.name }
func (p *extenderPlugin) Description() string { return p.description }

func (p *extenderPlugin) Extend(m goldmark.Markdown) {
	p.extender.Extend(m)
}

// NewGFMPlugin enables tables, strikethrough, autolinks and task lists.
func NewGFMPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &extenderPlugin{
		name:        "gfm",
		description: "GitHub Flavored Markdown",
		extender:    extension.GFM,
	}, nil
}

// NewTOCPlugin replaces [[toc]] lines with the page outline.
func NewTOCPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	ext, err := markdown.NewTOCExtension(cfg.Markdown.TOC.Options(), logger)
	if err != nil {
		return nil, err
	}
	return &extenderPlugin{
		name:        "toc",
		description: "Table of contents for [[toc]] markers",
		extender:    ext,
	}, nil
}

// NewContainerPlugin renders ::: message blocks.
func NewContainerPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &extenderPlugin{
		name:        "container",
		description: "Message containers for ::: blocks",
		extender:    markdown.Containers,
	}, nil
}

// NewEmojiPlugin converts :shortcodes: to emoji.
func NewEmojiPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &extenderPlugin{
		name:        "emoji",
		description: "Emoji shortcodes",
		extender:    emoji.Emoji,
	}, nil
}

// NewHighlightPlugin highlights fenced code blocks.
func NewHighlightPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &extenderPlugin{
		name:        "highlight",
		description: "Syntax highlighting for code blocks",
		extender: highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.Markdown.HighlightStyle),
			highlighting.WithFormatOptions(),
		),
	}, nil
}
