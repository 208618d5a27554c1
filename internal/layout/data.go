// Package layout renders complete HTML documents around page bodies. Every
// layout is a templ.Component built from a Data value.
package layout

// Data is everything a layout needs to render one page.
type Data struct {
	Site Site
	Page Page
	Menu []MenuSection
}

// Site holds the settings shared by all pages.
type Site struct {
	Title       string
	BaseURL     string
	Version     string
	ShowVersion bool
	GithubURL   string
	Links       []Link
}

// Page is the page being rendered.
type Page struct {
	ID          string
	Title       string
	Description string
	Content     string
	Outline     string
	EditURL     string
}

// Link is a navbar entry.
type Link struct {
	Label    string
	URL      string
	External bool
}

// MenuSection is a group of menu entries. An empty label renders the entries
// without a heading.
type MenuSection struct {
	Label string
	Items []MenuItem
}

// MenuItem points to one page.
type MenuItem struct {
	ID    string
	Title string
	URL   string
}

// PageTitle is the content of the <title> element.
func (d *Data) PageTitle() string {
	if d.Page.Title == "" || d.Page.Title == d.Site.Title {
		return d.Site.Title
	}
	return d.Page.Title + " - " + d.Site.Title
}
