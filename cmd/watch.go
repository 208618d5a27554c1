package cmd

import (
	"fmt"

	"github.com/nacara/nacara/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Build the site and rebuild it when sources change",
	RunE:    runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, builder, logger, err := loadSite(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	build := func() {
		result, err := builder.Build(ctx)
		switch {
		case result == nil:
			logger.Error(ctx, err, "Build failed")
		case err != nil:
			reportProblems(cmd.ErrOrStderr(), builder.Errors())
			logger.Warn(ctx, err, "Build finished with problems", "summary", result.Summary())
		default:
			logger.Info(ctx, "Build finished", "summary", result.Summary())
		}
	}
	build()

	fw, err := watcher.ForSource(cfg.Source, cfg.Output, cfg.Build.Ignore, logger)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Source, err)
	}
	defer fw.Stop()

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			logger.Debug(ctx, "Source changed", "path", event.Path, "type", event.Type.String())
		}
		build()
		return nil
	})
	if err := fw.Start(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Watching for changes", "source", cfg.Source)
	<-ctx.Done()
	return nil
}
