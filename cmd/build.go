package cmd

import (
	"fmt"

	"github.com/nacara/nacara/internal/site"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildClean bool

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the documentation site",
	Long: `Render every Markdown page of the source directory through its layout
and copy every other file into the output directory.

Examples:
  nacara build                 # Build into the configured output directory
  nacara build --clean         # Remove the output directory first
  nacara build --output public # Build into public/`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove the output directory before building")
	buildCmd.Flags().StringP("output", "o", "", "Output directory (overrides the output setting)")
	viper.BindPFlag("output", buildCmd.Flags().Lookup("output"))
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, builder, logger, err := loadSite(cmd)
	if err != nil {
		return err
	}
	if flagChanged(cmd.Flags(), "output") {
		logger.Debug(cmd.Context(), "Output directory set on the command line", "output", cfg.Output)
	}

	if buildClean {
		if err := site.Clean(cfg.Output, cfg.Source); err != nil {
			return fmt.Errorf("failed to clean %s: %w", cfg.Output, err)
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	result, err := builder.Build(ctx)
	if result != nil {
		reportProblems(cmd.ErrOrStderr(), builder.Errors())
		fmt.Fprintf(cmd.OutOrStdout(), "Built %s: %s\n", cfg.Output, result.Summary())
	}
	return err
}
