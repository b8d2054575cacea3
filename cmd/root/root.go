// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"swiftgen/mt9gen/internal/config"
	"swiftgen/mt9gen/internal/container"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/models"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapterFromLogger(config.Logger)

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "mt9gen",
		Short: "A CLI tool to convert ledger CSV exports to SWIFT MT940/MT950 statements.",
		Long: `mt9gen converts ledger exports with one statement line per row into
SWIFT MT940 (customer statement) or MT950 (statement message) files.
Pages and messages are split whenever the account, page number or
sender/receiver BIC pair changes between consecutive rows.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to mt9gen!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfigFromFile(ConfigFile)
			if err != nil {
				return err
			}
			if err := applyFlagOverrides(cfg); err != nil {
				return err
			}

			c, err := container.NewContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			AppContainer = c
			Log = c.GetLogger()
			return nil
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile overrides the config file search
	ConfigFile string
	// LogLevel overrides log.level
	LogLevel string
	// MessageType overrides message.type
	MessageType string

	// AppContainer is built before any subcommand runs
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.mt9gen, .mt9gen and .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVarP(&MessageType, "message-type", "t", "", "Message type to generate (940 or 950)")
}

// GetContainer returns the application container
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the application logger
func GetLogger() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return Log
}

func applyFlagOverrides(cfg *config.Config) error {
	if LogLevel != "" {
		cfg.Log.Level = strings.ToLower(LogLevel)
	}
	if MessageType != "" {
		mt, err := models.ParseMessageType(MessageType)
		if err != nil {
			return err
		}
		cfg.Message.Type = string(mt)
	}
	return nil
}
