package layout

import (
	"github.com/a-h/templ"
	"github.com/nacara/nacara/internal/toc"
)

// Document is the html, head and body skeleton shared by all layouts.
func Document(data *Data, body templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		hw.raw(`<meta charset="utf-8">` + "\n")
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
		hw.raw("<title>")
		hw.text(data.PageTitle())
		hw.raw("</title>\n")
		if data.Page.Description != "" {
			hw.raw(`<meta name="description"`)
			hw.attr("content", data.Page.Description)
			hw.raw(">\n")
		}
		hw.raw(`<link rel="stylesheet"`)
		hw.attr("href", data.Site.BaseURL+"style.css")
		hw.raw(">\n</head>\n<body>\n")
		hw.component(Navbar(data))
		hw.component(body)
		hw.raw("</body>\n</html>\n")
	})
}

// Navbar renders the site title, the optional version and the navbar links.
func Navbar(data *Data) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<nav class="navbar" role="navigation">` + "\n")
		hw.raw(`<div class="navbar-brand"><a class="navbar-item title"`)
		hw.attr("href", data.Site.BaseURL+"index.html")
		hw.raw(">")
		hw.text(data.Site.Title)
		hw.raw("</a>")
		if data.Site.ShowVersion && data.Site.Version != "" {
			hw.raw(`<span class="navbar-item version">`)
			hw.text(data.Site.Version)
			hw.raw("</span>")
		}
		hw.raw("</div>\n")

		hw.raw(`<div class="navbar-menu">`)
		for _, link := range data.Site.Links {
			hw.raw(`<a class="navbar-item"`)
			hw.attr("href", link.URL)
			if link.External {
				hw.raw(` target="_blank" rel="noopener noreferrer"`)
			}
			hw.raw(">")
			hw.text(link.Label)
			hw.raw("</a>")
		}
		if data.Site.GithubURL != "" {
			hw.raw(`<a class="navbar-item github"`)
			hw.attr("href", data.Site.GithubURL)
			hw.raw(` target="_blank" rel="noopener noreferrer">GitHub</a>`)
		}
		hw.raw("</div>\n</nav>\n")
	})
}

// Menu renders the side menu and marks the current page.
func Menu(data *Data) templ.Component {
	return component(func(hw *htmlWriter) {
		if len(data.Menu) == 0 {
			return
		}

		hw.raw(`<aside class="menu">` + "\n")
		for _, section := range data.Menu {
			if section.Label != "" {
				hw.raw(`<p class="menu-label">`)
				hw.text(section.Label)
				hw.raw("</p>\n")
			}
			hw.raw(`<ul class="menu-list">`)
			for _, item := range section.Items {
				hw.raw("<li><a")
				if item.ID == data.Page.ID {
					hw.raw(` class="is-active"`)
				}
				hw.attr("href", item.URL)
				hw.raw(">")
				hw.text(item.Title)
				hw.raw("</a></li>")
			}
			hw.raw("</ul>\n")
		}
		hw.raw("</aside>\n")
	})
}

func editLink(data *Data) templ.Component {
	return component(func(hw *htmlWriter) {
		if data.Page.EditURL == "" {
			return
		}
		hw.raw(`<p class="edit-page"><a`)
		hw.attr("href", data.Page.EditURL)
		hw.raw(` target="_blank" rel="noopener noreferrer">Edit this page</a></p>` + "\n")
	})
}

func outlineColumn(data *Data) templ.Component {
	return component(func(hw *htmlWriter) {
		if data.Page.Outline == "" || data.Page.Outline == toc.EmptyOutline {
			return
		}
		hw.raw(`<aside class="toc-column">`)
		hw.component(templ.Raw(toc.RenderNav(data.Page.Outline)))
		hw.raw("</aside>\n")
	})
}
