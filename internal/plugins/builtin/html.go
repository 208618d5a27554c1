package builtin

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/plugins"
)

// AnchorsPlugin adds a permalink to every section heading.
type AnchorsPlugin struct {
	selector string
}

// NewAnchorsPlugin creates the header anchor plugin.
func NewAnchorsPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &AnchorsPlugin{selector: "h2[id], h3[id], h4[id]"}, nil
}

func (p *AnchorsPlugin) Name() string        { return "anchors" }
func (p *AnchorsPlugin) Description() string { return "Permalinks on h2 to h4 headings" }

func (p *AnchorsPlugin) Transform(ctx context.Context, doc *goquery.Document, page *plugins.Page) error {
	doc.Find(p.selector).Each(func(_ int, heading *goquery.Selection) {
		id, _ := heading.Attr("id")
		if id == "" || heading.Find("a.header-anchor").Length() > 0 {
			return
		}
		heading.AppendHtml(fmt.Sprintf(`<a class="header-anchor" href="#%s" aria-hidden="true">#</a>`, html.EscapeString(id)))
	})
	return nil
}

// ExternalLinksPlugin opens links to other sites in a new tab.
type ExternalLinksPlugin struct {
	siteURL string
}

// NewExternalLinksPlugin creates the external link plugin. Links under the
// configured site url are not considered external.
func NewExternalLinksPlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	return &ExternalLinksPlugin{siteURL: strings.TrimSuffix(cfg.URL, "/")}, nil
}

func (p *ExternalLinksPlugin) Name() string        { return "external-links" }
func (p *ExternalLinksPlugin) Description() string { return "Open external links in a new tab" }

func (p *ExternalLinksPlugin) Transform(ctx context.Context, doc *goquery.Document, page *plugins.Page) error {
	doc.Find(`a[href^="http://"], a[href^="https://"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if p.siteURL != "" && (href == p.siteURL || strings.HasPrefix(href, p.siteURL+"/")) {
			return
		}
		link.SetAttr("target", "_blank")
		link.SetAttr("rel", "noopener noreferrer")
	})
	return nil
}

// SanitizePlugin strips scripts and unsafe attributes from page bodies.
type SanitizePlugin struct {
	policy *bluemonday.Policy
}

// NewSanitizePlugin creates the sanitizer. Classes, ids and the aria-hidden
// attribute used by anchors survive sanitizing.
func NewSanitizePlugin(cfg *config.Config, logger logging.Logger) (plugins.Plugin, error) {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "id").Globally()
	policy.AllowAttrs("aria-hidden").OnElements("a")
	policy.AllowStyles("color", "background-color", "font-weight", "font-style").OnElements("pre", "span")
	policy.AllowElements("nav", "article", "div", "span")
	return &SanitizePlugin{policy: policy}, nil
}

func (p *SanitizePlugin) Name() string        { return "sanitize" }
func (p *SanitizePlugin) Description() string { return "Remove unsafe HTML" }

func (p *SanitizePlugin) Transform(ctx context.Context, doc *goquery.Document, page *plugins.Page) error {
	body := doc.Find("body")
	raw, err := body.Html()
	if err != nil {
		return err
	}
	body.SetHtml(p.policy.Sanitize(raw))
	return nil
}
