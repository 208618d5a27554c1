package markdown

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/toc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func newEngine(t *testing.T, opts toc.Options, logger logging.Logger) *Engine {
	t.Helper()
	if logger == nil {
		logger = logging.Discard()
	}

	tocExt, err := NewTOCExtension(opts, logger)
	require.NoError(t, err)

	engine, err := New(opts, logger, tocExt, Containers)
	require.NoError(t, err)
	return engine
}

func render(t *testing.T, engine *Engine, source string) string {
	t.Helper()
	html, err := engine.Convert([]byte(source))
	require.NoError(t, err)
	return string(html)
}

func TestTOCGolden(t *testing.T) {
	source, err := os.ReadFile("testdata/guide.md")
	require.NoError(t, err)
	golden, err := os.ReadFile("testdata/guide.golden")
	require.NoError(t, err)

	html := render(t, newEngine(t, toc.DefaultOptions(), nil), string(source))

	assert.Contains(t, html, string(golden))
	assert.Contains(t, html, `<h2 id="installation">Installation</h2>`)
	assert.NotContains(t, html, "[[toc]]")
}

func TestTOCMarker(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	tests := []struct {
		name     string
		source   string
		navCount int
		contains []string
	}{
		{
			name:     "upper case marker",
			source:   "[[TOC]]\n\n## Usage\n",
			navCount: 1,
			contains: []string{`<a href="#usage">Usage</a>`},
		},
		{
			name:     "trailing spaces",
			source:   "[[toc]]   \n\n## Usage\n",
			navCount: 1,
		},
		{
			name:     "marker on the last line",
			source:   "## Usage\n\n[[toc]]",
			navCount: 1,
			contains: []string{`<a href="#usage">Usage</a>`},
		},
		{
			name:     "marker interrupting a paragraph",
			source:   "Contents:\n[[toc]]\n## Usage\n",
			navCount: 1,
			contains: []string{"<p>Contents:</p>"},
		},
		{
			name:     "marker inside text",
			source:   "See [[toc]] here\n\n## Usage\n",
			navCount: 0,
			contains: []string{"See [[toc]] here"},
		},
		{
			name:     "marker followed by text",
			source:   "[[toc]] now\n\n## Usage\n",
			navCount: 0,
		},
		{
			name:     "marker in fenced code",
			source:   "```\n[[toc]]\n```\n\n## Usage\n",
			navCount: 0,
			contains: []string{"[[toc]]"},
		},
		{
			name:     "two markers",
			source:   "[[toc]]\n\n## Usage\n\n[[toc]]\n",
			navCount: 2,
		},
		{
			name:     "no headings",
			source:   "[[toc]]\n\nJust text.\n",
			navCount: 1,
			contains: []string{toc.RenderNav(toc.EmptyOutline)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := render(t, engine, tt.source)
			assert.Equal(t, tt.navCount, strings.Count(html, `<nav class="toc-container">`))
			for _, want := range tt.contains {
				assert.Contains(t, html, want)
			}
		})
	}
}

func TestTOCSeesWholeDocument(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	html := render(t, engine, "## Before\n\n[[toc]]\n\n## After\n")

	assert.Contains(t, html, `<a href="#before">Before</a>`)
	assert.Contains(t, html, `<a href="#after">After</a>`)
}

func TestTOCHeadingText(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	html := render(t, engine, "[[toc]]\n\n## Use `go test` & <b>more</b>\n")

	assert.Contains(t, html, `>Use go test &amp; more</a>`)
}

func TestTOCMalformedDocumentDegrades(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Output: &logs})
	opts := toc.Options{MinLevel: 2, MaxLevel: 6, MaxNesting: 2}

	html := render(t, newEngine(t, opts, logger), "[[toc]]\n\n## A\n\n### B\n\n#### C\n\nBody text.\n")

	assert.Contains(t, html, toc.RenderNav(toc.EmptyOutline))
	assert.Contains(t, html, "<p>Body text.</p>")
	assert.Contains(t, logs.String(), "empty outline")
}

func TestTokenize(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)
	result, err := engine.Render([]byte("# Title\n\nText\n\n## Part {#custom}\n"))
	require.NoError(t, err)

	var headings []toc.Token
	for _, token := range result.Tokens {
		if token.Kind == toc.KindInline {
			headings = append(headings, token)
		}
	}

	require.Len(t, headings, 2)
	assert.Equal(t, toc.Inline("Title", "title"), headings[0])
	assert.Equal(t, toc.Inline("Part", "custom"), headings[1])
	assert.Equal(t, toc.KindOther, result.Tokens[3].Kind)
}

func TestEngineOutline(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	outline, err := engine.OutlineOf([]byte("## Intro\n\n### Background\n\n## Usage\n"))
	require.NoError(t, err)
	golden, err := os.ReadFile("../toc/testdata/intro_background_usage.golden")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(string(golden)), outline)

	result, err := engine.Render([]byte("## Intro\n"))
	require.NoError(t, err)
	assert.Contains(t, engine.Outline(result.Tokens), `<a href="#intro">Intro</a>`)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(toc.Options{MinLevel: 1, MaxLevel: 4, MaxNesting: 1}, logging.Discard())
	assert.Error(t, err)

	_, err = NewTOCExtension(toc.Options{MinLevel: 3, MaxLevel: 2, MaxNesting: 1}, logging.Discard())
	assert.Error(t, err)
}

func TestContainers(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	t.Run("with title", func(t *testing.T) {
		html := render(t, engine, "::: warning Careful <now>\nBe **careful**.\n:::\n\nAfter.\n")

		assert.Contains(t, html, `<article class="message is-warning">`)
		assert.Contains(t, html, `<div class="message-header"><p>Careful &lt;now&gt;</p></div>`)
		assert.Contains(t, html, "<div class=\"message-body\">\n<p>Be <strong>careful</strong>.</p>\n</div>\n</article>")
		assert.Contains(t, html, "<p>After.</p>")
	})

	t.Run("directive title", func(t *testing.T) {
		html := render(t, engine, ":::info{title=\"Note\"}\nText\n:::\n")

		assert.Contains(t, html, `<article class="message is-info">`)
		assert.Contains(t, html, `<p>Note</p>`)
	})

	t.Run("without title", func(t *testing.T) {
		html := render(t, engine, "::: success\nDone\n:::\n")

		assert.Contains(t, html, `<article class="message is-success">`)
		assert.NotContains(t, html, "message-header")
	})

	t.Run("unknown name", func(t *testing.T) {
		html := render(t, engine, "::: note\nText\n:::\n")
		assert.NotContains(t, html, "<article")
	})

	t.Run("code fence keeps colon lines", func(t *testing.T) {
		html := render(t, engine, "::: info\n```\n:::\n```\n:::\n\nAfter.\n")

		assert.Equal(t, 1, strings.Count(html, "<article"))
		assert.Contains(t, html, "<div class=\"message-body\">\n<pre><code>:::\n</code></pre>\n</div>\n</article>")
		assert.Equal(t, 1, strings.Count(html, "<pre>"))
		assert.Contains(t, html, "</article>\n<p>After.</p>")
	})

	t.Run("nested containers", func(t *testing.T) {
		html := render(t, engine, "::: info\n::: warning\ninner\n:::\nouter\n:::\n")

		assert.Equal(t, 2, strings.Count(html, "<article"))
		assert.Contains(t, html, "<article class=\"message is-warning\">\n<div class=\"message-body\">\n<p>inner</p>\n</div>\n</article>\n<p>outer</p>\n</div>\n</article>")
		assert.NotContains(t, html, ":::")
	})

	t.Run("shorter closing line stays inside", func(t *testing.T) {
		html := render(t, engine, ":::: danger\n:::\nstill inside\n::::\n\nAfter.\n")

		assert.Equal(t, 1, strings.Count(html, "<article"))
		assert.Contains(t, html, "still inside</p>\n</div>\n</article>")
		assert.Contains(t, html, "</article>\n<p>After.</p>")
	})

	t.Run("closing line goes to the innermost container", func(t *testing.T) {
		for _, source := range []string{
			"::: info\n::::: warning\ninner\n:::::\nouter\n:::\n",
			"::: info\n::: warning\ninner\n:::::\nouter\n:::\n",
		} {
			html := render(t, engine, source)

			assert.Equal(t, 2, strings.Count(html, "<article"), source)
			assert.Contains(t, html, "<p>inner</p>\n</div>\n</article>\n<p>outer</p>\n</div>\n</article>", source)
		}
	})

	t.Run("headings inside are part of the outline", func(t *testing.T) {
		html := render(t, engine, "[[toc]]\n\n::: danger\n## Inside\n:::\n")
		assert.Contains(t, html, `<a href="#inside">Inside</a>`)
	})
}

func TestParseContainerOpening(t *testing.T) {
	tests := []struct {
		line  string
		name  string
		title string
		fence int
		ok    bool
	}{
		{"::: info\n", "info", "", 3, true},
		{":::: primary Read me\n", "primary", "Read me", 4, true},
		{":::danger{title=\"Stop\"}\n", "danger", "Stop", 3, true},
		{":: info\n", "", "", 0, false},
		{"::: infos\n", "", "", 0, false},
		{":::\n", "", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.line), func(t *testing.T) {
			name, title, fence, ok := parseContainerOpening([]byte(tt.line))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.fence, fence)
		})
	}

	assert.Equal(t, 3, closingFence([]byte(":::\n")))
	assert.Equal(t, 4, closingFence([]byte("  ::::  \n")))
	assert.Zero(t, closingFence([]byte("::: info\n")))
	assert.Zero(t, closingFence([]byte("::\n")))
}

func TestConcurrentRender(t *testing.T) {
	engine := newEngine(t, toc.DefaultOptions(), nil)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source := fmt.Sprintf("[[toc]]\n\n## Page %d\n\n### Detail %d\n", i, i)
			html, err := engine.Convert([]byte(source))
			if err == nil {
				results[i] = string(html)
			}
		}(i)
	}
	wg.Wait()

	for i, html := range results {
		assert.Contains(t, html, fmt.Sprintf(`<a href="#page-%d">Page %d</a>`, i, i))
		assert.Contains(t, html, fmt.Sprintf(`<a href="#detail-%d">Detail %d</a>`, i, i))
		for j := range results {
			if j != i {
				assert.NotContains(t, html, fmt.Sprintf(`>Page %d<`, j))
			}
		}
	}
}

func TestExtendersCompose(t *testing.T) {
	var _ goldmark.Extender = Containers
	ext, err := NewTOCExtension(toc.DefaultOptions(), logging.Discard())
	require.NoError(t, err)
	var _ goldmark.Extender = ext
}
