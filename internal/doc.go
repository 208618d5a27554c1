// Package internal contains the implementation packages of the nacara CLI.
//
// # Package Organization
//
//   - toc: nested table of contents built from a flat heading token stream
//   - markdown: goldmark integration ([[toc]] marker, containers, tokens)
//   - plugins: ordered registry of Markdown and HTML plugins
//   - layout: page layouts rendered as templ components
//   - site: page discovery, front matter and the parallel site build
//   - server: development server with live reload
//   - watcher: debounced file system notifications
//   - config: configuration loading and validation
//   - errors: typed errors and the per build error collector
//   - logging: structured logging over log/slog
//   - version: build information of the binary
//
// # Data Flow
//
// The site builder discovers the pages below the source directory, renders
// each one through the markdown engine and the HTML stage of the plugin
// chain, wraps it in its layout and writes it to the output directory. The
// markdown engine hands every [[toc]] node the token stream of its own
// document, so pages render concurrently without shared state.
//
// The development server serves the output directory. The watcher reports
// source changes; the server rebuilds and tells the browsers which page to
// reload.
package internal
