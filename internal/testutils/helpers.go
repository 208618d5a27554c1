// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nacara/nacara/internal/config"
	"github.com/stretchr/testify/require"
)

// CreateTempSite creates a project directory with an empty docs/ source
// directory.
func CreateTempSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	return dir
}

// WriteFiles writes files below root, creating directories as needed.
// Keys are slash separated paths.
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// CreateTestConfig returns the default configuration with source and
// output inside projectDir.
func CreateTestConfig(projectDir string) *config.Config {
	cfg := config.Default()
	cfg.Title = "Fable"
	cfg.Source = filepath.Join(projectDir, "docs")
	cfg.Output = filepath.Join(projectDir, "_site")
	cfg.Build.Workers = 2
	cfg.Menu = []config.MenuSection{
		{Label: "Guide", Items: []string{"index", "guide/setup"}},
	}
	return cfg
}

// StandardPages is a small documentation source tree.
var StandardPages = map[string]string{
	"index.md": `---
title: Home
---

# Fable

[[toc]]

## Intro

### Background

## Usage
`,
	"guide/setup.md": `# Setup

::: warning Careful
Back up first.
:::

## Install

## Configure
`,
	"style.css": "body { margin: 0; }\n",
}

// PathTraversal lists request paths that must never escape the served
// directory.
var PathTraversal = []string{
	"/../../../etc/passwd",
	"/..%2F..%2F..%2Fetc%2Fpasswd",
	"/%2e%2e/%2e%2e/%2e%2e/etc/passwd",
	"/./../../etc/passwd",
	"/....//....//....//etc/passwd",
}
