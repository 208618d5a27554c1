package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nacara/nacara/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:     "init [directory]",
	Aliases: []string{"i"},
	Short:   "Scaffold a new documentation project",
	Long: `Create nacara.yml, docs/index.md and docs/changelog.md in the given
directory (the working directory by default). Existing files are kept
unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

const indexTemplate = `---
title: Introduction
---

# %s

[[toc]]

## Getting started

Edit the pages below docs/ and run nacara serve to preview them.

## Writing pages

Every Markdown file becomes a page. The front matter sets its title and
layout.

::: info Tip
Put the [[toc]] marker on a line of its own to get an outline of the page.
:::
`

const changelogTemplate = `---
title: Changelog
---

# Changelog

## Unreleased

### Added

- Documentation site
`

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg := config.Default()
	cfg.Title = filepath.Base(mustAbs(root))
	cfg.Changelog = "changelog.md"
	cfg.Build.Workers = 0
	cfg.Menu = []config.MenuSection{
		{Label: "Documentation", Items: []string{"index", "changelog"}},
	}

	configData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	files := []struct {
		path    string
		content []byte
	}{
		{config.FileName, configData},
		{filepath.Join(cfg.Source, "index.md"), []byte(fmt.Sprintf(indexTemplate, cfg.Title))},
		{filepath.Join(cfg.Source, cfg.Changelog), []byte(changelogTemplate)},
	}

	for _, file := range files {
		target := filepath.Join(root, file.path)
		if _, err := os.Stat(target); err == nil && !initForce {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %s (already exists)\n", target)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
		}
		if err := os.WriteFile(target, file.content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", target)
	}

	return nil
}

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
