package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/validation"
)

// ValidationError reports the configuration field that failed validation.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validatePath(config.Source); err != nil {
		return &ValidationError{Field: "source", Value: config.Source, Message: err.Error()}
	}
	if err := validatePath(config.Output); err != nil {
		return &ValidationError{Field: "output", Value: config.Output, Message: err.Error()}
	}
	if filepath.Clean(config.Source) == filepath.Clean(config.Output) {
		return &ValidationError{Field: "output", Value: config.Output, Message: "output must differ from source"}
	}

	if err := validateMarkdownConfig(&config.Markdown); err != nil {
		return fmt.Errorf("markdown config: %w", err)
	}

	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}

	for i, section := range config.Menu {
		for _, id := range section.Items {
			if strings.TrimSpace(id) == "" {
				return &ValidationError{Field: fmt.Sprintf("menu[%d]", i), Message: "empty page id"}
			}
		}
	}

	links := map[string]string{"url": config.URL, "edit_url": config.EditURL, "github_url": config.GithubURL}
	for _, field := range []string{"url", "edit_url", "github_url"} {
		if links[field] == "" {
			continue
		}
		if err := validation.ValidateLink(links[field]); err != nil {
			return &ValidationError{Field: field, Value: links[field], Message: err.Error()}
		}
	}

	for i, link := range config.Navbar.Links {
		field := fmt.Sprintf("navbar.links[%d]", i)
		if link.Label == "" || link.URL == "" {
			return &ValidationError{Field: field, Value: link, Message: "label and url are required"}
		}
		if link.External() {
			if err := validation.ValidateLink(link.URL); err != nil {
				return &ValidationError{Field: field, Value: link.URL, Message: err.Error()}
			}
		} else if u, err := url.Parse(link.URL); err != nil || u.Scheme != "" {
			return &ValidationError{Field: field, Value: link.URL, Message: "expected a site path or an http(s) URL"}
		}
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// 0 lets the system pick a port, used by tests
	if config.Port < 0 || config.Port > 65535 {
		return &ValidationError{Field: "server.port", Value: config.Port, Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port)}
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return &ValidationError{Field: "server.host", Value: config.Host, Message: "host contains dangerous character: " + char}
			}
		}
	}

	return nil
}

func validateMarkdownConfig(config *MarkdownConfig) error {
	t := config.TOC
	if t.MinLevel < 2 || t.MinLevel > 6 {
		return &ValidationError{Field: "markdown.toc.min_level", Value: t.MinLevel, Message: "must be between 2 and 6"}
	}
	if t.MaxLevel < t.MinLevel || t.MaxLevel > 6 {
		return &ValidationError{Field: "markdown.toc.max_level", Value: t.MaxLevel, Message: fmt.Sprintf("must be between %d and 6", t.MinLevel)}
	}
	if t.MaxNesting < 1 {
		return &ValidationError{Field: "markdown.toc.max_nesting", Value: t.MaxNesting, Message: "must be at least 1"}
	}

	seen := make(map[string]bool, len(config.Plugins))
	for _, name := range config.Plugins {
		if err := validatePluginName(name); err != nil {
			return err
		}
		if seen[name] {
			return &ValidationError{Field: "markdown.plugins", Value: name, Message: "plugin listed twice"}
		}
		seen[name] = true
	}

	return nil
}

// validatePluginName checks the shape of a plugin name. Whether the plugin
// exists is decided by the plugin registry.
func validatePluginName(name string) error {
	if name == "" {
		return &ValidationError{Field: "markdown.plugins", Message: "empty plugin name"}
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return &ValidationError{Field: "markdown.plugins", Value: name, Message: fmt.Sprintf("invalid character %q in plugin name", r)}
		}
	}
	return nil
}

// validateBuildConfig validates build configuration values
func validateBuildConfig(config *BuildConfig) error {
	if config.Workers < 1 {
		return &ValidationError{Field: "build.workers", Value: config.Workers, Message: "must be at least 1"}
	}
	if config.CacheSize < 0 {
		return &ValidationError{Field: "build.cache_size", Value: config.CacheSize, Message: "must not be negative"}
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return errors.ErrInvalidPath(path)
	}

	cleanPath := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return errors.ErrPathTraversal(path)
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return errors.ErrInvalidPath(path).WithContext("character", char)
		}
	}

	return nil
}
