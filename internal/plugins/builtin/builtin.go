// Package builtin provides the plugins shipped with nacara.
package builtin

import (
	"github.com/nacara/nacara/internal/plugins"
)

// RegisterAll registers every built-in plugin on r.
func RegisterAll(r *plugins.Registry) error {
	factories := map[string]plugins.Factory{
		"gfm":            NewGFMPlugin,
		"toc":            NewTOCPlugin,
		"container":      NewContainerPlugin,
		"emoji":          NewEmojiPlugin,
		"highlight":      NewHighlightPlugin,
		"anchors":        NewAnchorsPlugin,
		"external-links": NewExternalLinksPlugin,
		"sanitize":       NewSanitizePlugin,
	}

	for name, factory := range factories {
		if err := r.Register(name, factory); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in plugins.
func NewRegistry() *plugins.Registry {
	r := plugins.NewRegistry()
	// registering into an empty registry cannot collide
	_ = RegisterAll(r)
	return r
}
