package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/markdown"
	"github.com/nacara/nacara/internal/plugins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderWith(t *testing.T, names []string, source string) string {
	t.Helper()
	return renderWithConfig(t, config.Default(), names, source)
}

func renderWithConfig(t *testing.T, cfg *config.Config, names []string, source string) string {
	t.Helper()

	chain, err := NewRegistry().Resolve(names, cfg, logging.Discard())
	require.NoError(t, err)

	engine, err := markdown.New(cfg.Markdown.TOC.Options(), logging.Discard(), chain.Extenders()...)
	require.NoError(t, err)

	body, err := engine.Convert([]byte(source))
	require.NoError(t, err)

	out, err := chain.Transform(context.Background(), body, &plugins.Page{ID: "test"})
	require.NoError(t, err)
	return string(out)
}

func TestRegisterAll(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"anchors", "container", "emoji", "external-links", "gfm", "highlight", "sanitize", "toc"}, r.Names())

	assert.Error(t, RegisterAll(r), "registering twice must collide")

	for _, name := range config.DefaultPlugins {
		assert.Contains(t, r.Names(), name)
	}
}

func TestBuiltinPluginsDescribeThemselves(t *testing.T) {
	chain, err := NewRegistry().Resolve(NewRegistry().Names(), config.Default(), logging.Discard())
	require.NoError(t, err)

	for _, plugin := range chain.Plugins() {
		assert.NotEmpty(t, plugin.Description(), plugin.Name())
	}
}

func TestGFMPlugin(t *testing.T) {
	out := renderWith(t, []string{"gfm"}, "| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~\n")

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<del>old</del>")
}

func TestTOCPlugin(t *testing.T) {
	cfg := config.Default()
	cfg.Markdown.TOC.MaxLevel = 3

	out := renderWithConfig(t, cfg, []string{"toc"}, "[[toc]]\n\n## Intro\n\n### Background\n\n#### Deep\n")

	assert.Contains(t, out, `<nav class="toc-container">`)
	assert.Contains(t, out, `<a href="#background">Background</a>`)
	assert.NotContains(t, out, `<a href="#deep">`)
}

func TestTOCPluginRejectsBadLevels(t *testing.T) {
	cfg := config.Default()
	cfg.Markdown.TOC.MinLevel = 1

	_, err := NewRegistry().Resolve([]string{"toc"}, cfg, logging.Discard())
	assert.Error(t, err)
}

func TestContainerPlugin(t *testing.T) {
	out := renderWith(t, []string{"container"}, "::: info Heads up\nRead this.\n:::\n")

	assert.Contains(t, out, `<article class="message is-info">`)
	assert.Contains(t, out, "Heads up")
}

func TestEmojiPlugin(t *testing.T) {
	out := renderWith(t, []string{"emoji"}, "Ship it :rocket:\n")

	assert.NotContains(t, out, ":rocket:")
}

func TestHighlightPlugin(t *testing.T) {
	out := renderWith(t, []string{"highlight"}, "```go\nfunc main() {}\n```\n")

	assert.Contains(t, out, "<pre")
	assert.Contains(t, out, "style=")
	assert.Contains(t, out, "main")
}

func TestAnchorsPlugin(t *testing.T) {
	out := renderWith(t, []string{"anchors"}, "# Title\n\n## Usage\n\n##### Fine print\n")

	assert.Contains(t, out, `<h2 id="usage">Usage<a class="header-anchor" href="#usage" aria-hidden="true">#</a></h2>`)
	assert.Equal(t, 1, strings.Count(out, "header-anchor"))
}

func TestExternalLinksPlugin(t *testing.T) {
	cfg := config.Default()
	cfg.URL = "https://docs.example.com"

	out := renderWithConfig(t, cfg, []string{"external-links"},
		"[out](https://go.dev) [in](https://docs.example.com/guide.html) [rel](guide.html)\n")

	assert.Contains(t, out, `<a href="https://go.dev" target="_blank" rel="noopener noreferrer">out</a>`)
	assert.Contains(t, out, `<a href="https://docs.example.com/guide.html">in</a>`)
	assert.Contains(t, out, `<a href="guide.html">rel</a>`)
}

func TestSanitizePlugin(t *testing.T) {
	out := renderWith(t, []string{"toc", "container", "anchors", "sanitize"},
		"[[toc]]\n\n## Safe\n\n<script>alert(1)</script>\n\n::: danger\n<a href=\"javascript:alert(1)\" onclick=\"x()\">bad</a>\n:::\n")

	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `class="toc-container"`)
	assert.Contains(t, out, `class="message is-danger"`)
	assert.Contains(t, out, `class="header-anchor"`)
}
