package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/layout"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/markdown"
	"github.com/nacara/nacara/internal/plugins"
)

// Result summarizes one build.
type Result struct {
	Pages     int
	Assets    int
	Bytes     int64
	CacheHits int
	Duration  time.Duration
	Errors    []errors.BuildError
}

// Summary is the one line report printed after a build.
func (r *Result) Summary() string {
	summary := fmt.Sprintf("%d pages, %d assets, %s written in %s",
		r.Pages, r.Assets, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
	if r.CacheHits > 0 {
		summary += fmt.Sprintf(" (%d cached)", r.CacheHits)
	}
	if len(r.Errors) > 0 {
		summary += fmt.Sprintf(", %d problems", len(r.Errors))
	}
	return summary
}

// renderedBody is the cached output of the markdown and HTML stages.
type renderedBody struct {
	html    string
	outline string
}

// Builder renders the site described by a configuration. A Builder may be
// reused for successive builds; unchanged pages are then served from its
// cache.
type Builder struct {
	cfg       *config.Config
	chain     *plugins.Chain
	engine    *markdown.Engine
	cache     *lru.Cache[string, *renderedBody]
	collector *errors.ErrorCollector
	metrics   *BuildMetrics
	logger    logging.Logger

	mu    sync.RWMutex
	index map[string]string // source path -> page id
}

// NewBuilder resolves the configured plugins and prepares the markdown
// engine.
func NewBuilder(cfg *config.Config, registry *plugins.Registry, logger logging.Logger) (*Builder, error) {
	logger = logger.WithComponent("site")

	chain, err := registry.Resolve(cfg.Markdown.Plugins, cfg, logger)
	if err != nil {
		return nil, err
	}

	engine, err := markdown.New(cfg.Markdown.TOC.Options(), logger, chain.Extenders()...)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:       cfg,
		chain:     chain,
		engine:    engine,
		collector: errors.NewErrorCollector(),
		metrics:   &BuildMetrics{},
		logger:    logger,
		index:     make(map[string]string),
	}

	if cfg.Build.CacheSize > 0 {
		cache, err := lru.New[string, *renderedBody](cfg.Build.CacheSize)
		if err != nil {
			return nil, errors.NewInternalError(errors.ErrCodeInternalError, "cannot create render cache", err)
		}
		b.cache = cache
	}

	return b, nil
}

// Errors returns the problems found by the last build.
func (b *Builder) Errors() *errors.ErrorCollector {
	return b.collector
}

// Metrics returns a snapshot of the build metrics.
func (b *Builder) Metrics() BuildMetrics {
	return b.metrics.GetSnapshot()
}

// Engine returns the markdown engine used for pages.
func (b *Builder) Engine() *markdown.Engine {
	return b.engine
}

// PageID returns the id of the page built from the given source file, as
// of the last build.
func (b *Builder) PageID(sourcePath string) (string, bool) {
	root, err := filepath.Abs(b.cfg.Source)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	id, ok := b.index[filepath.ToSlash(rel)]
	return id, ok
}

type pageResult struct {
	page     *Page
	bytes    int64
	cacheHit bool
	err      error
}

// Build renders every page and copies every asset. Page level problems are
// collected and reported together once all pages have been processed; the
// returned error is then a build error summarizing them.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	perf := logging.StartOperation(b.logger, "build")
	b.collector.Clear()

	tree, err := discover(b.cfg.Source, b.cfg.Output, b.cfg.Build.Ignore)
	if err != nil {
		perf.EndWithError(ctx, err)
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read source directory "+b.cfg.Source, err)
	}
	if err := os.MkdirAll(b.cfg.Output, 0o755); err != nil {
		perf.EndWithError(ctx, err)
		return nil, errors.NewIOError(errors.ErrCodeBuildFailed, "cannot create output directory "+b.cfg.Output, err)
	}

	pages := b.loadPages(tree.Pages)
	menu := b.resolveMenu(pages)

	result := &Result{}
	for res := range b.renderAll(ctx, pages, menu) {
		if res.err != nil {
			b.collector.AddError(res.page.ID, res.page.RelPath, res.err, severityOf(res.err))
			continue
		}
		result.Pages++
		result.Bytes += res.bytes
		if res.cacheHit {
			result.CacheHits++
		}
	}

	if err := ctx.Err(); err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	for _, rel := range tree.Assets {
		n, err := copyFile(filepath.Join(b.cfg.Source, filepath.FromSlash(rel)), filepath.Join(b.cfg.Output, filepath.FromSlash(rel)))
		if err != nil {
			b.collector.AddError("", rel, errors.NewIOError(errors.ErrCodeBuildFailed, "cannot copy asset", err), errors.ErrorSeverityError)
			continue
		}
		result.Assets++
		result.Bytes += n
	}

	result.Duration = time.Since(start)
	result.Errors = b.collector.GetErrors()
	b.metrics.RecordBuild(result)
	perf.End(ctx, "pages", result.Pages, "assets", result.Assets, "cache_hits", result.CacheHits)

	if b.collector.HasErrors() {
		return result, errors.NewBuildError(errors.ErrCodeBuildFailed, fmt.Sprintf("%d problems found while building", len(result.Errors)), nil)
	}
	return result, nil
}

// severityOf ranks a page failure. Failures the next rebuild can get past by
// editing sources are errors; the rest, such as an unwritable output
// directory, are fatal.
func severityOf(err error) errors.ErrorSeverity {
	if errors.IsRecoverable(err) {
		return errors.ErrorSeverityError
	}
	return errors.ErrorSeverityFatal
}

// loadPages parses every page and indexes them by id. Pages that fail to
// parse or reuse an id are reported and skipped.
func (b *Builder) loadPages(relPaths []string) []*Page {
	pages := make([]*Page, 0, len(relPaths))
	byID := make(map[string]*Page, len(relPaths))
	index := make(map[string]string, len(relPaths))

	for _, rel := range relPaths {
		content, err := os.ReadFile(filepath.Join(b.cfg.Source, filepath.FromSlash(rel)))
		if err != nil {
			b.collector.AddError("", rel, errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read page", err), errors.ErrorSeverityError)
			continue
		}

		page, err := ParsePage(rel, content)
		if err != nil {
			b.collector.AddError("", rel, err, errors.ErrorSeverityError)
			continue
		}
		if page.Layout == "" && b.cfg.Changelog != "" && rel == filepath.ToSlash(b.cfg.Changelog) {
			page.Layout = "changelog"
		}

		if other, exists := byID[page.ID]; exists {
			b.collector.AddError(page.ID, rel, errors.NewValidationError(errors.ErrCodeBuildFailed,
				fmt.Sprintf("page id %s already used by %s", page.ID, other.RelPath)), errors.ErrorSeverityError)
			continue
		}

		byID[page.ID] = page
		index[rel] = page.ID
		pages = append(pages, page)
	}

	b.mu.Lock()
	b.index = index
	b.mu.Unlock()

	return pages
}

// resolveMenu maps the configured page ids to titles and URLs. Unknown ids
// are reported as warnings and left out.
func (b *Builder) resolveMenu(pages []*Page) []layout.MenuSection {
	byID := make(map[string]*Page, len(pages))
	for _, page := range pages {
		byID[page.ID] = page
	}

	sections := make([]layout.MenuSection, 0, len(b.cfg.Menu))
	for _, section := range b.cfg.Menu {
		resolved := layout.MenuSection{Label: section.Label}
		for _, id := range section.Items {
			page, ok := byID[id]
			if !ok {
				b.collector.AddError(id, b.cfg.Source, errors.ErrPageNotFound(id), errors.ErrorSeverityWarning)
				continue
			}
			resolved.Items = append(resolved.Items, layout.MenuItem{
				ID:    page.ID,
				Title: page.Title,
				URL:   b.cfg.PageURL(page.ID),
			})
		}
		sections = append(sections, resolved)
	}
	return sections
}

// renderAll fans pages out to the configured number of workers. The returned
// channel is closed once every page has been handled.
func (b *Builder) renderAll(ctx context.Context, pages []*Page, menu []layout.MenuSection) <-chan pageResult {
	tasks := make(chan *Page)
	results := make(chan pageResult, len(pages))

	workers := b.cfg.Build.Workers
	if workers > len(pages) {
		workers = len(pages)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range tasks {
				if err := ctx.Err(); err != nil {
					results <- pageResult{page: page, err: err}
					continue
				}
				n, hit, err := b.writePage(ctx, page, menu)
				results <- pageResult{page: page, bytes: n, cacheHit: hit, err: err}
			}
		}()
	}

	go func() {
		for _, page := range pages {
			tasks <- page
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	return results
}

func (b *Builder) writePage(ctx context.Context, page *Page, menu []layout.MenuSection) (int64, bool, error) {
	html, hit, err := b.RenderPage(ctx, page, menu)
	if err != nil {
		return 0, false, err
	}

	target := filepath.Join(b.cfg.Output, filepath.FromSlash(page.ID)+".html")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, false, errors.NewIOError(errors.ErrCodeBuildFailed, "cannot create "+filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, html, 0o644); err != nil {
		return 0, false, errors.NewIOError(errors.ErrCodeBuildFailed, "cannot write "+target, err)
	}

	b.logger.Debug(ctx, "Page written", "page", page.ID, "bytes", len(html), "cached", hit)
	return int64(len(html)), hit, nil
}

// RenderPage renders a complete HTML document for page. The boolean reports
// whether the body came from the cache.
func (b *Builder) RenderPage(ctx context.Context, page *Page, menu []layout.MenuSection) ([]byte, bool, error) {
	render, err := layout.Lookup(page.Layout)
	if err != nil {
		return nil, false, err
	}

	body, hit, err := b.renderBody(ctx, page)
	if err != nil {
		return nil, false, err
	}

	data := &layout.Data{
		Site: b.siteData(),
		Page: layout.Page{
			ID:          page.ID,
			Title:       page.Title,
			Description: page.Description,
			Content:     body.html,
			Outline:     body.outline,
			EditURL:     b.cfg.EditLink(page.RelPath),
		},
		Menu: menu,
	}

	var buf bytes.Buffer
	if err := render(data).Render(ctx, &buf); err != nil {
		return nil, false, errors.NewRenderError(errors.ErrCodeRenderFailed, "layout failed", err).WithPage(page.ID)
	}
	return buf.Bytes(), hit, nil
}

func (b *Builder) renderBody(ctx context.Context, page *Page) (*renderedBody, bool, error) {
	if b.cache != nil {
		if body, ok := b.cache.Get(page.Hash); ok {
			return body, true, nil
		}
	}

	result, err := b.engine.Render(page.Body)
	if err != nil {
		return nil, false, err
	}

	html, err := b.chain.Transform(ctx, result.HTML, &plugins.Page{ID: page.ID, Path: page.RelPath, Title: page.Title})
	if err != nil {
		return nil, false, err
	}

	body := &renderedBody{html: string(html), outline: b.engine.Outline(result.Tokens)}
	if b.cache != nil {
		b.cache.Add(page.Hash, body)
	}
	return body, false, nil
}

func (b *Builder) siteData() layout.Site {
	site := layout.Site{
		Title:       b.cfg.Title,
		BaseURL:     b.cfg.BaseURL,
		Version:     b.cfg.Version,
		ShowVersion: b.cfg.Navbar.ShowVersion,
		GithubURL:   b.cfg.GithubURL,
	}
	for _, link := range b.cfg.Navbar.Links {
		site.Links = append(site.Links, layout.Link{Label: link.Label, URL: link.URL, External: link.External()})
	}
	return site
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
