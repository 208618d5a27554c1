package layout

import (
	"sort"

	"github.com/a-h/templ"
	"github.com/nacara/nacara/internal/errors"
)

// Layout turns page data into a full HTML document.
type Layout func(data *Data) templ.Component

// DefaultName is used for pages without a layout attribute.
const DefaultName = "default"

var layouts = map[string]Layout{
	"default":   Default,
	"changelog": Changelog,
}

// Lookup returns the layout registered under name. An empty name selects
// the default layout.
func Lookup(name string) (Layout, error) {
	if name == "" {
		name = DefaultName
	}
	l, ok := layouts[name]
	if !ok {
		return nil, errors.ErrUnknownLayout(name)
	}
	return l, nil
}

// Names lists the available layouts.
func Names() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default renders documentation pages: menu, content and outline column.
func Default(data *Data) templ.Component {
	return Document(data, component(func(hw *htmlWriter) {
		hw.raw(`<div class="page-container">` + "\n")
		hw.component(Menu(data))
		hw.raw(`<main class="content">` + "\n")
		if data.Page.Title != "" {
			hw.raw(`<h1 class="page-title">`)
			hw.text(data.Page.Title)
			hw.raw("</h1>\n")
		}
		hw.component(templ.Raw(data.Page.Content))
		hw.component(editLink(data))
		hw.raw("</main>\n")
		hw.component(outlineColumn(data))
		hw.raw("</div>\n")
	}))
}

// Changelog renders a release history. The outline lists the versions.
func Changelog(data *Data) templ.Component {
	return Document(data, component(func(hw *htmlWriter) {
		hw.raw(`<div class="page-container changelog">` + "\n")
		hw.component(outlineColumn(data))
		hw.raw(`<section class="changelog-content">` + "\n")
		hw.raw(`<h1 class="page-title">`)
		if data.Page.Title != "" {
			hw.text(data.Page.Title)
		} else {
			hw.raw("Changelog")
		}
		hw.raw("</h1>\n")
		hw.component(templ.Raw(data.Page.Content))
		hw.raw("</section>\n</div>\n")
	}))
}
