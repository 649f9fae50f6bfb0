package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lovedocu/internal/common"
)

var (
	// Command-line flags
	configFiles []string // Multiple --config flags supported
	logLevel    string

	// Global state, resolved in PersistentPreRunE
	config *common.Config
	logger arbor.ILogger
)

// rootCmd is the base command. With no sub-command it serves the web tool.
var rootCmd = &cobra.Command{
	Use:   "lovedocu",
	Short: "PDF tools: merge, split, compress, convert and watermark",
	Long: `LoveDocu is a web tool for everyday PDF work. Run without arguments (or
with "serve") to start the web UI and MCP endpoint. Every operation is also
available as a sub-command that works on local files.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configFiles, "config", "c", nil,
		"configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override: debug, info, warn, error")

	addServeFlags(rootCmd)
}

// loadConfig resolves configuration in order: defaults -> files -> env -> flags,
// then initializes the logger
func loadConfig(cmd *cobra.Command, args []string) error {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("lovedocu.toml"); err == nil {
			configFiles = append(configFiles, "lovedocu.toml")
		} else if _, err := os.Stat("deployments/local/lovedocu.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/lovedocu.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	common.ApplyFlagOverrides(config, servePort, serveHost)
	if logLevel != "" {
		config.Logging.Level = logLevel
	}

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Str("badger_path", config.Storage.Badger.Path).
		Msg("Resolved configuration")

	return nil
}

func main() {
	defer common.RecoverWithCrashFile()

	common.LoadVersionFromFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
