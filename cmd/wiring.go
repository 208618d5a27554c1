package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nacara/nacara/internal/config"
	"github.com/nacara/nacara/internal/errors"
	"github.com/nacara/nacara/internal/logging"
	"github.com/nacara/nacara/internal/plugins/builtin"
	"github.com/nacara/nacara/internal/site"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newLogger creates the logger for a command from the log-level setting.
func newLogger(cmd *cobra.Command) (logging.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: "text",
		Output: cmd.ErrOrStderr(),
	}), nil
}

// loadSite loads the configuration and prepares a site builder for it.
func loadSite(cmd *cobra.Command) (*config.Config, *site.Builder, logging.Logger, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	builder, err := site.NewBuilder(cfg, builtin.NewRegistry(), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to prepare build: %w", err)
	}
	return cfg, builder, logger, nil
}

// reportProblems prints every problem collected by the last build.
func reportProblems(w io.Writer, collector *errors.ErrorCollector) {
	for _, problem := range collector.GetErrors() {
		fmt.Fprintln(w, problem.Error())
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
