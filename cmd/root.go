// Package cmd provides the nacara command-line interface.
//
// Configuration is read with the following precedence, highest first:
//
//  1. Command-line flags (--port, --output, ...)
//  2. NACARA_* environment variables, e.g. NACARA_SERVER_PORT=9000. Values
//     found in a .env file in the working directory are loaded into the
//     environment first and never override variables that are already set.
//  3. The configuration file: --config, else NACARA_CONFIG_FILE, else
//     nacara.yml in the working directory.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nacara/nacara/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nacara",
	Short: "A static documentation site generator",
	Long: `Nacara turns a directory of Markdown pages into a documentation site
with a navigation menu, per page tables of contents and a changelog.

Quick Start:
  nacara init      Scaffold nacara.yml and a docs/ directory
  nacara serve     Build, watch and serve with live reload
  nacara build     Build the site into the output directory`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is nacara.yml, can also use NACARA_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig points viper at the configuration file and binds the
// environment.
func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Ignoring unreadable .env file:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("NACARA_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".yml"))
	}

	viper.SetEnvPrefix("NACARA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// A missing nacara.yml is fine, defaults apply
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "Cannot read config file:", err)
		}
	}
}
