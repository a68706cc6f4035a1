// Package app provides the command-line interface for bbsdial.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bbsdial/bbsdial/internal/catalog"
	"github.com/bbsdial/bbsdial/internal/config"
	"github.com/bbsdial/bbsdial/internal/versions"
)

var rootCmd = &cobra.Command{
	Use:               "bbsdial",
	DisableAutoGenTag: true,
	Short:             "Dial BBS systems from a personal directory",
	Long: `bbsdial maintains a personal catalog of BBS endpoints aggregated from
local directories and remote git repositories, caches the merged catalog,
and connects to entries through external clients (telnet, ssh, browser).`,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelWarn
		if viper.GetBool("debug") {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates the root command for bbsdial.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (defaults to the user config location)")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		slog.Error("Error binding debug flag", "error", err)
	}
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		slog.Error("Error binding config flag", "error", err)
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(dialCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// newCatalogService loads the configuration and wires the catalog service.
func newCatalogService() (*catalog.Service, error) {
	var opts []config.Option
	if path := viper.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return catalog.NewDefaultService(cfg), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("error formatting version info as JSON: %w", err)
			}
			fmt.Println(string(output))
			return nil
		}

		fmt.Printf("bbsdial %s (commit %s, built %s, %s, %s)\n",
			info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
