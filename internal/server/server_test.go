package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/plugins/builtin"
	"github.com/nacara/nacara/internal/site"
	"github.com/nacara/nacara/internal/testutils"
	"github.com/nacara/nacara/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, files map[string]string, configure func(*config.Config)) (*config.Config, *Server) {
	t.Helper()
	dir := testutils.CreateTempSite(t)

	cfg := testutils.CreateTestConfig(dir)
	cfg.Menu = nil
	if configure != nil {
		configure(cfg)
	}
	testutils.WriteFiles(t, cfg.Source, files)

	builder, err := site.NewBuilder(cfg, builtin.NewRegistry(), logging.Discard())
	require.NoError(t, err)
	_, _ = builder.Build(context.Background())

	return cfg, New(cfg, builder, logging.Discard())
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServesPagesWithLiveReload(t *testing.T) {
	_, srv := newTestServer(t, map[string]string{
		"index.md":       "# Home\n\nWelcome\n",
		"guide/setup.md": "# Setup\n",
		"style.css":      "body { color: red; }\n",
	}, nil)
	handler := srv.Handler()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"root", "/", "Welcome"},
		{"explicit", "/index.html", "Welcome"},
		{"extensionless", "/guide/setup", "Setup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, handler, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, LiveReloadPath)
			assert.Less(t, strings.Index(body, LiveReloadPath), strings.LastIndex(body, "</body>"))
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}

	rec := get(t, handler, "/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body { color: red; }\n", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, handler, "/missing.html").Code)
}

func TestStaticHandlerStaysInOutput(t *testing.T) {
	cfg, srv := newTestServer(t, testutils.StandardPages, nil)
	handler := srv.Handler()
	static := newStaticHandler(cfg.Output, func() []byte { return nil })

	for _, target := range testutils.PathTraversal {
		t.Run(target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = target
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.NotContains(t, rec.Body.String(), "root:")

			if name, ok := static.resolve(target); ok {
				assert.True(t, strings.HasPrefix(name, cfg.Output+string(filepath.Separator)), name)
			}
		})
	}
}

func TestLiveReloadCanBeDisabled(t *testing.T) {
	_, srv := newTestServer(t, map[string]string{"index.md": "# Home\n"}, func(cfg *config.Config) {
		cfg.Development.LiveReload = false
	})

	rec := get(t, srv.Handler(), "/index.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), LiveReloadPath)
}

func TestErrorOverlay(t *testing.T) {
	files := map[string]string{
		"index.md":  "# Home\n",
		"broken.md": "---\nlayout: poster\n---\n# Broken\n",
	}

	_, srv := newTestServer(t, files, nil)
	rec := get(t, srv.Handler(), "/index.html")
	assert.Contains(t, rec.Body.String(), "nacara-error-overlay")
	assert.Contains(t, rec.Body.String(), "broken.md")

	_, quiet := newTestServer(t, files, func(cfg *config.Config) {
		cfg.Development.ErrorOverlay = false
	})
	rec = get(t, quiet.Handler(), "/index.html")
	assert.NotContains(t, rec.Body.String(), "nacara-error-overlay")
}

func TestBaseURLRedirect(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.URL.Path)
	})

	handler := BaseURLRedirect("/docs/")(next)

	rec := get(t, handler, "/docs/guide/setup.html?x=1")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/guide/setup.html?x=1", rec.Header().Get("Location"))

	rec = get(t, handler, "/docs/")
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = get(t, handler, "/documents/a.html")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/documents/a.html", rec.Body.String())

	rec = get(t, BaseURLRedirect("/")(next), "/docs/a.html")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerKeepsStatus(t *testing.T) {
	handler := RequestLogger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	assert.Equal(t, http.StatusTeapot, get(t, handler, "/").Code)
}

func TestInjectBeforeBodyEnd(t *testing.T) {
	assert.Equal(t, "<body>a<s></s></BODY>", string(injectBeforeBodyEnd([]byte("<body>a</BODY>"), []byte("<s></s>"))))
	assert.Equal(t, "a<s></s>", string(injectBeforeBodyEnd([]byte("a"), []byte("<s></s>"))))
	assert.Equal(t, "a", string(injectBeforeBodyEnd([]byte("a"), nil)))
}

func TestMessageFor(t *testing.T) {
	pageID := func(path string) (string, bool) {
		if path == "docs/guide/setup.md" {
			return "guide/setup", true
		}
		return "", false
	}

	tests := []struct {
		name   string
		events []watcher.ChangeEvent
		want   Message
	}{
		{"no events", nil, Message{Type: MessageReload}},
		{"single page", []watcher.ChangeEvent{{Path: "docs/guide/setup.md", Type: watcher.EventTypeModified}}, Message{Type: MessageReload, Page: "guide/setup"}},
		{"deleted page", []watcher.ChangeEvent{{Path: "docs/guide/setup.md", Type: watcher.EventTypeDeleted}}, Message{Type: MessageReload}},
		{"unknown file", []watcher.ChangeEvent{{Path: "docs/logo.png", Type: watcher.EventTypeModified}}, Message{Type: MessageReload}},
		{"styles only", []watcher.ChangeEvent{{Path: "docs/a.css"}, {Path: "docs/b.CSS"}}, Message{Type: MessageRefreshCSS}},
		{"several pages", []watcher.ChangeEvent{{Path: "docs/guide/setup.md"}, {Path: "docs/index.md"}}, Message{Type: MessageReload}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageFor(tt.events, pageID))
		})
	}

	assert.JSONEq(t, `{"type":"reload"}`, string(Message{Type: MessageReload}.encode()))
	assert.JSONEq(t, `{"type":"reload","page":"index"}`, string(Message{Type: MessageReload, Page: "index"}.encode()))
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		host   string
		origin string
		want   bool
	}{
		{"localhost:8080", "http://localhost:8080", true},
		{"127.0.0.1:8080", "http://localhost:8080", true},
		{"localhost:8080", "http://localhost:9090", false},
		{"localhost:8080", "http://evil.example", false},
		{"localhost:8080", "file://localhost:8080", false},
		{"localhost:8080", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, LiveReloadPath, nil)
		req.Host = tt.host
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, checkOrigin(req), "%s from %s", tt.host, tt.origin)
	}
}

func TestLiveReloadBroadcast(t *testing.T) {
	_, srv := newTestServer(t, map[string]string{"index.md": "# Home\n"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{ts.URL}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return srv.Hub().ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	srv.Hub().Broadcast(Message{Type: MessageReload, Page: "index"}.encode())

	readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
	defer readCancel()
	_, data, err := conn.Read(readCtx)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, Message{Type: MessageReload, Page: "index"}, msg)
}

func TestLiveReloadRejectsForeignOrigin(t *testing.T) {
	_, srv := newTestServer(t, map[string]string{"index.md": "# Home\n"}, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	_, resp, err := websocket.Dial(context.Background(), wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{"http://evil.example"}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRebuildNotifiesClients(t *testing.T) {
	cfg, srv := newTestServer(t, map[string]string{"index.md": "# Home\n"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{ts.URL}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool {
		return srv.Hub().ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	source := filepath.Join(cfg.Source, "index.md")
	require.NoError(t, os.WriteFile(source, []byte("# Home\n\nUpdated\n"), 0o644))
	srv.Rebuild(ctx, []watcher.ChangeEvent{{Path: source, Type: watcher.EventTypeModified}})

	readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
	defer readCancel()
	_, data, err := conn.Read(readCtx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"reload","page":"index"}`, string(data))

	rec := get(t, srv.Handler(), "/index.html")
	assert.Contains(t, rec.Body.String(), "Updated")
}

func TestRebuildReportsPageProblems(t *testing.T) {
	cfg, srv := newTestServer(t, map[string]string{
		"index.md": "# Home\n",
		"blog.md":  "---\nlayout: blog\n---\n# Blog\n",
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Hub().Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + LiveReloadPath
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": []string{ts.URL}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool {
		return srv.Hub().ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	source := filepath.Join(cfg.Source, "blog.md")
	require.NoError(t, os.WriteFile(source, []byte("---\nlayout: blog\n---\n# Blog\n\nDraft\n"), 0o644))
	srv.Rebuild(ctx, []watcher.ChangeEvent{{Path: source, Type: watcher.EventTypeModified}})

	readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
	defer readCancel()
	_, data, err := conn.Read(readCtx)
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.Equal(t, "blog", msg.Page)
	require.Len(t, msg.Problems, 1)
	assert.Contains(t, msg.Problems[0], "unknown layout: blog")
}
