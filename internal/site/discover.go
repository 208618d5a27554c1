package site

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// sourceTree lists the files of the source directory, as slash separated
// paths relative to it.
type sourceTree struct {
	Pages  []string
	Assets []string
}

// discover walks root. The output directory is skipped when it lives inside
// the source directory.
func discover(root, output string, ignore []string) (*sourceTree, error) {
	tree := &sourceTree{}
	output = filepath.Clean(output)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if isIgnored(rel, ignore) || (d.IsDir() && filepath.Clean(p) == output) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if strings.EqualFold(path.Ext(rel), ".md") {
			tree.Pages = append(tree.Pages, rel)
		} else {
			tree.Assets = append(tree.Assets, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(tree.Pages)
	sort.Strings(tree.Assets)
	return tree, nil
}

// isIgnored matches every path segment against the ignore patterns.
func isIgnored(rel string, patterns []string) bool {
	for _, segment := range strings.Split(rel, "/") {
		for _, pattern := range patterns {
			if matched, _ := path.Match(pattern, segment); matched {
				return true
			}
		}
	}
	return false
}
