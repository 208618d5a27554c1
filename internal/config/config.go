// Package config provides configuration management for nacara using Viper
// for loading from nacara.yml, NACARA_ environment variables and
// command-line flags.
//
// Load unmarshals the merged settings, fills in defaults and validates the
// result. The site builder, the markdown engine and the development server
// all read their settings from the returned Config.
package config

import (
	"fmt"
	"net"
	"runtime"
	"strconv"
	"strings"

	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/toc"
	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "nacara.yml"

// DefaultPlugins is the plugin chain used when markdown.plugins is unset.
var DefaultPlugins = []string{"gfm", "toc", "container", "anchors"}

type Config struct {
	Title     string `mapstructure:"title" yaml:"title"`
	URL       string `mapstructure:"url" yaml:"url"`
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	EditURL   string `mapstructure:"edit_url" yaml:"edit_url,omitempty"`
	GithubURL string `mapstructure:"github_url" yaml:"github_url,omitempty"`
	Version   string `mapstructure:"version" yaml:"version,omitempty"`
	Source    string `mapstructure:"source" yaml:"source"`
	Output    string `mapstructure:"output" yaml:"output"`
	Changelog string `mapstructure:"changelog" yaml:"changelog,omitempty"`

	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Markdown    MarkdownConfig    `mapstructure:"markdown" yaml:"markdown"`
	Navbar      NavbarConfig      `mapstructure:"navbar" yaml:"navbar"`
	Menu        []MenuSection     `mapstructure:"menu" yaml:"menu"`
	Build       BuildConfig       `mapstructure:"build" yaml:"build"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Host string `mapstructure:"host" yaml:"host"`
	Open bool   `mapstructure:"open" yaml:"open"`
}

type MarkdownConfig struct {
	Plugins        []string  `mapstructure:"plugins" yaml:"plugins"`
	HighlightStyle string    `mapstructure:"highlight_style" yaml:"highlight_style"`
	TOC            TOCConfig `mapstructure:"toc" yaml:"toc"`
}

// TOCConfig bounds the headings collected into the page outline.
type TOCConfig struct {
	MinLevel   int `mapstructure:"min_level" yaml:"min_level"`
	MaxLevel   int `mapstructure:"max_level" yaml:"max_level"`
	MaxNesting int `mapstructure:"max_nesting" yaml:"max_nesting"`
}

// Options converts the settings into outline builder options.
func (t TOCConfig) Options() toc.Options {
	return toc.Options{
		MinLevel:   t.MinLevel,
		MaxLevel:   t.MaxLevel,
		MaxNesting: t.MaxNesting,
	}
}

type NavbarConfig struct {
	ShowVersion bool      `mapstructure:"show_version" yaml:"show_version"`
	Links       []NavLink `mapstructure:"links" yaml:"links"`
}

type NavLink struct {
	Label string `mapstructure:"label" yaml:"label"`
	URL   string `mapstructure:"url" yaml:"url"`
}

// External reports whether the link leaves the site.
func (l NavLink) External() bool {
	return strings.HasPrefix(l.URL, "http://") || strings.HasPrefix(l.URL, "https://")
}

// MenuSection groups page ids under an optional label. An empty label puts
// the items at the top of the menu.
type MenuSection struct {
	Label string   `mapstructure:"label" yaml:"label,omitempty"`
	Items []string `mapstructure:"items" yaml:"items"`
}

type BuildConfig struct {
	Workers   int      `mapstructure:"workers" yaml:"workers,omitempty"`
	Ignore    []string `mapstructure:"ignore" yaml:"ignore"`
	CacheSize int      `mapstructure:"cache_size" yaml:"cache_size"`
}

type DevelopmentConfig struct {
	LiveReload   bool `mapstructure:"live_reload" yaml:"live_reload"`
	ErrorOverlay bool `mapstructure:"error_overlay" yaml:"error_overlay"`
}

// Default returns the configuration of a freshly scaffolded project.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, func(string) bool { return false })
	return cfg
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "cannot decode configuration").WithContext("cause", err.Error())
	}

	// Slices and bools set directly on viper are not always decoded
	if viper.IsSet("markdown.plugins") {
		config.Markdown.Plugins = viper.GetStringSlice("markdown.plugins")
	}
	if viper.IsSet("build.ignore") {
		config.Build.Ignore = viper.GetStringSlice("build.ignore")
	}
	if viper.IsSet("development.live_reload") {
		config.Development.LiveReload = viper.GetBool("development.live_reload")
	}
	if viper.IsSet("development.error_overlay") {
		config.Development.ErrorOverlay = viper.GetBool("development.error_overlay")
	}

	applyDefaults(&config, viper.IsSet)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config, isSet func(string) bool) {
	if config.Title == "" {
		config.Title = "Nacara"
	}
	config.BaseURL = NormalizeBaseURL(config.BaseURL)
	if config.Source == "" {
		config.Source = "docs"
	}
	if config.Output == "" {
		config.Output = "_site"
	}

	if config.Server.Port == 0 && !isSet("server.port") {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if len(config.Markdown.Plugins) == 0 {
		config.Markdown.Plugins = append([]string(nil), DefaultPlugins...)
	}
	if config.Markdown.HighlightStyle == "" {
		config.Markdown.HighlightStyle = "github"
	}
	if config.Markdown.TOC.MinLevel == 0 {
		config.Markdown.TOC.MinLevel = toc.DefaultMinLevel
	}
	if config.Markdown.TOC.MaxLevel == 0 {
		config.Markdown.TOC.MaxLevel = toc.DefaultMaxLevel
	}
	if config.Markdown.TOC.MaxNesting == 0 {
		config.Markdown.TOC.MaxNesting = toc.DefaultMaxNesting
	}

	if config.Build.Workers == 0 {
		config.Build.Workers = runtime.NumCPU()
	}
	if len(config.Build.Ignore) == 0 && !isSet("build.ignore") {
		config.Build.Ignore = []string{".git", "node_modules", ".DS_Store"}
	}
	if config.Build.CacheSize == 0 && !isSet("build.cache_size") {
		config.Build.CacheSize = 256
	}

	if !isSet("development.live_reload") {
		config.Development.LiveReload = true
	}
	if !isSet("development.error_overlay") {
		config.Development.ErrorOverlay = true
	}
}

// NormalizeBaseURL returns base with exactly one leading and one trailing
// slash. An empty base is the site root.
func NormalizeBaseURL(base string) string {
	trimmed := strings.Trim(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

// PageURL returns the public URL of the page with the given id.
func (c *Config) PageURL(id string) string {
	return c.BaseURL + strings.TrimPrefix(id, "/") + ".html"
}

// EditLink returns the edit URL for a source file, or "" when edit_url is
// not configured.
func (c *Config) EditLink(relPath string) string {
	if c.EditURL == "" {
		return ""
	}
	return strings.TrimSuffix(c.EditURL, "/") + "/" + strings.TrimPrefix(relPath, "/")
}

// Address is the host:port the development server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
