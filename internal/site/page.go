// Package site builds a documentation site: it discovers the pages and
// assets of the source directory, renders every page through the plugin
// chain and its layout, and writes the result to the output directory.
package site

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/nacara/nacara/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Page is a markdown source file and its front matter.
type Page struct {
	// ID is the slash separated output path without extension.
	ID string

	// RelPath is the path relative to the source directory.
	RelPath string

	Title       string
	Layout      string
	Description string

	// Body is the markdown after the front matter.
	Body []byte

	// Hash identifies the rendered body in the cache.
	Hash string
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Layout      string `yaml:"layout"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

var frontMatterDelimiter = []byte("---")

// ParsePage reads the front matter of content. Missing attributes fall back
// to values derived from relPath.
func ParsePage(relPath string, content []byte) (*Page, error) {
	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))

	meta, body, ok := splitFrontMatter(content)
	if !ok {
		return nil, errors.NewBuildError(errors.ErrCodeFrontMatter, "front matter is not closed by ---", nil).WithLocation(relPath, 1)
	}

	var fm frontMatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, errors.NewBuildError(errors.ErrCodeFrontMatter, "invalid front matter", err).WithLocation(relPath, 1)
		}
	}

	page := &Page{
		ID:          strings.TrimSuffix(relPath, path.Ext(relPath)),
		RelPath:     relPath,
		Title:       strings.TrimSpace(fm.Title),
		Layout:      fm.Layout,
		Description: fm.Description,
		Body:        body,
	}
	if fm.ID != "" {
		page.ID = strings.Trim(path.Clean(fm.ID), "/")
	}
	if err := validateID(page.ID); err != nil {
		return nil, err.WithLocation(relPath, 1)
	}
	if page.Title == "" {
		page.Title = TitleFromPath(relPath)
	}

	sum := sha256.Sum256(bytes.Join([][]byte{[]byte(relPath), []byte(page.ID), body}, []byte{0}))
	page.Hash = hex.EncodeToString(sum[:])

	return page, nil
}

// splitFrontMatter separates a leading --- block from the body. ok is false
// when the block is opened but never closed.
func splitFrontMatter(content []byte) (meta, body []byte, ok bool) {
	first, rest, _ := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, true
	}

	start := len(content) - len(rest)
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if isDelimiter(line) {
			return content[start : len(content)-len(rest)], next, true
		}
		rest = next
	}
	return nil, nil, false
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelimiter)
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

func validateID(id string) *errors.NacaraError {
	if id == "" || id == "." {
		return errors.ErrInvalidPath(id)
	}
	if strings.HasPrefix(id, "/") {
		return errors.ErrInvalidPath(id)
	}
	for _, part := range strings.Split(id, "/") {
		if part == ".." {
			return errors.ErrPathTraversal(id)
		}
	}
	return nil
}

// TitleFromPath turns "guide/getting-started.md" into "Getting Started".
func TitleFromPath(relPath string) string {
	name := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
