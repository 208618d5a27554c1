package cmd

import (
	"github.com/nacara/nacara/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the development server with live reload",
	Long: `Build the site, serve the output directory and rebuild on every change.
Open pages reload automatically; build problems are shown on top of the
page while they last.

Examples:
  nacara serve              # Serve on localhost:8080
  nacara serve --port 9000  # Serve on another port
  nacara serve --open       # Open the browser once the server is up`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port to serve on (default 8080)")
	serveCmd.Flags().String("host", "", "Host to bind to (default localhost)")
	serveCmd.Flags().Bool("open", false, "Open the browser automatically")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.open", serveCmd.Flags().Lookup("open"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, builder, logger, err := loadSite(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return server.New(cfg, builder, logger).Start(ctx)
}
