// Package server implements the development server: it serves the built
// site, rebuilds it when sources change and tells the open browser tabs to
// reload.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/site"
	"github.com/nacara/nacara/internal/validation"
	"github.com/nacara/nacara/internal/watcher"
)

// Server is the development server.
type Server struct {
	cfg        *config.Config
	builder    *site.Builder
	hub        *Hub
	logger     logging.Logger
	httpServer *http.Server
	watcher    *watcher.FileWatcher

	ready        chan struct{}
	addr         string
	shutdownOnce sync.Once
}

// New creates a server for the site built by builder.
func New(cfg *config.Config, builder *site.Builder, logger logging.Logger) *Server {
	logger = logger.WithComponent("server")
	s := &Server{
		cfg:     cfg,
		builder: builder,
		hub:     NewHub(logger),
		logger:  logger,
		ready:   make(chan struct{}),
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Hub returns the live reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Ready is closed once the server accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server listens on. It is only meaningful
// after Ready is closed.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the HTTP handler serving the site and the live reload
// endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(LiveReloadPath, s.hub)
	mux.Handle("/", newStaticHandler(s.cfg.Output, s.injection))

	handler := BaseURLRedirect(s.cfg.BaseURL)(mux)
	return RequestLogger(s.logger)(handler)
}

// injection is appended to every HTML page served.
func (s *Server) injection() []byte {
	var snippet []byte
	if s.cfg.Development.ErrorOverlay && s.builder.Errors().HasErrors() {
		snippet = append(snippet, s.builder.Errors().ErrorOverlay()...)
	}
	if s.cfg.Development.LiveReload {
		snippet = append(snippet, liveReloadScript...)
	}
	return snippet
}

// Start builds the site, starts watching the sources and serves until ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.build(ctx); err != nil {
		return err
	}

	fw, err := watcher.ForSource(s.cfg.Source, s.cfg.Output, s.cfg.Build.Ignore, s.logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.cfg.Source, err)
	}
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		s.Rebuild(ctx, events)
		return nil
	})
	s.watcher = fw
	if err := fw.Start(ctx); err != nil {
		return err
	}

	go s.hub.Run(ctx)

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.watcher.Stop()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	s.addr = listener.Addr().String()
	close(s.ready)

	siteURL := "http://" + s.addr + s.cfg.BaseURL
	s.logger.Info(ctx, "Serving documentation", "url", siteURL, "live_reload", s.cfg.Development.LiveReload)
	if s.cfg.Server.Open {
		go s.openBrowser(ctx, siteURL)
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Rebuild rebuilds the site after a batch of source changes and notifies
// the browsers. Failed builds still notify them so that the error overlay
// shows up.
func (s *Server) Rebuild(ctx context.Context, events []watcher.ChangeEvent) {
	s.logger.Debug(ctx, "Sources changed", "events", len(events))
	if err := s.build(ctx); err != nil {
		return
	}

	msg := messageFor(events, s.builder.PageID)
	if msg.Page != "" {
		for _, problem := range s.builder.Errors().GetErrorsByPage(msg.Page) {
			s.logger.Warn(ctx, &problem, "Page has problems", "page", msg.Page)
			msg.Problems = append(msg.Problems, problem.Error())
		}
	}
	s.hub.Broadcast(msg.encode())
}

// build runs the builder and logs the outcome. Only failures that left no
// site behind are returned.
func (s *Server) build(ctx context.Context) error {
	result, err := s.builder.Build(ctx)
	if result == nil {
		s.logger.Error(ctx, err, "Build failed")
		return err
	}
	if err != nil {
		s.logger.Warn(ctx, err, "Build finished with problems", "summary", result.Summary())
		return nil
	}
	s.logger.Info(ctx, "Build finished", "summary", result.Summary())
	return nil
}

// Shutdown stops the watcher and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")
		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}
		shutdownErr = s.httpServer.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) openBrowser(ctx context.Context, target string) {
	time.Sleep(100 * time.Millisecond) // Give server time to start

	// Validate URL for security before passing to system commands
	err := validation.ValidateURL(target)
	if err != nil {
		s.logger.Warn(ctx, err, "Browser open failed due to invalid URL", "url", target)
		return
	}

	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", target).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", target).Start()
	case "darwin":
		err = exec.Command("open", target).Start()
	default:
		err = fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
	if err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser")
	}
}
