package server

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// staticHandler serves the output directory. Page URLs may omit the .html
// extension and directories resolve to their index.html. HTML responses get
// the live reload script and, while the last build failed, the error
// overlay.
type staticHandler struct {
	root    string
	inject  func() []byte
	fileSrv http.Handler
}

func newStaticHandler(root string, inject func() []byte) *staticHandler {
	return &staticHandler{
		root:    root,
		inject:  inject,
		fileSrv: http.FileServer(http.Dir(root)),
	}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, ok := h.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if filepath.Ext(name) != ".html" {
		h.fileSrv.ServeHTTP(w, r)
		return
	}

	content, err := os.ReadFile(name)
	if err != nil {
		http.Error(w, "Cannot read page", http.StatusInternalServerError)
		return
	}
	content = injectBeforeBodyEnd(content, h.inject())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, filepath.Base(name), time.Time{}, bytes.NewReader(content))
}

// resolve maps a URL path to a file below root.
func (h *staticHandler) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	name := filepath.Join(h.root, filepath.FromSlash(clean))

	candidates := []string{name}
	if strings.HasSuffix(urlPath, "/") || clean == "/" {
		candidates = []string{filepath.Join(name, "index.html")}
	} else if path.Ext(clean) == "" {
		candidates = append(candidates, name+".html", filepath.Join(name, "index.html"))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func injectBeforeBodyEnd(page, snippet []byte) []byte {
	if len(snippet) == 0 {
		return page
	}
	idx := bytes.LastIndex(bytes.ToLower(page), []byte("</body>"))
	if idx < 0 {
		return append(page, snippet...)
	}

	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:idx]...)
	out = append(out, snippet...)
	out = append(out, page[idx:]...)
	return out
}
