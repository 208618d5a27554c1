package cmd

import (
	"fmt"
	"os"

	"github.com/nacara/nacara/internal/site"
	"github.com/nacara/nacara/internal/toc"
	"github.com/spf13/cobra"
)

var tocNav bool

var tocCmd = &cobra.Command{
	Use:   "toc <file>",
	Short: "Print the table of contents of a page",
	Long: `Print the outline nacara generates for a Markdown page, using the
configured plugins and heading levels. Useful to check why a heading does
not show up in a page's table of contents.`,
	Args: cobra.ExactArgs(1),
	RunE: runTOC,
}

func init() {
	rootCmd.AddCommand(tocCmd)

	tocCmd.Flags().BoolVar(&tocNav, "nav", false, "Wrap the outline in its nav container")
}

func runTOC(cmd *cobra.Command, args []string) error {
	_, builder, _, err := loadSite(cmd)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	page, err := site.ParsePage(args[0], content)
	if err != nil {
		return err
	}

	outline, err := builder.Engine().OutlineOf(page.Body)
	if err != nil {
		return err
	}
	if tocNav {
		outline = toc.RenderNav(outline)
	}
	fmt.Fprintln(cmd.OutOrStdout(), outline)
	return nil
}
