package commands

import (
	"log/slog"

	"github.com/ppiankov/jsspectre/internal/config"
	"github.com/ppiankov/jsspectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jsspectre <domain|url>",
	Short: "JSSpectre - token leak scanner for web page scripts",
	Long: `JSSpectre downloads a web page together with its external and inline
scripts, and reports every substring that looks like a leaked credential:
API keys, JWTs, AWS access keys, generic tokens and bearer tokens.

Part of the Spectre family of infrastructure cleanup tools.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
	RunE: runScan,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	addScanFlags(rootCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}
