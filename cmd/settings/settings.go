// Package settings handles the config command, which prints the effective
// configuration after defaults, config file, environment and flags.
package settings

import (
	"fmt"
	"io"

	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as YAML.

The output can be saved as .mt9gen/config.yaml and edited.

Example:
  MT9_MESSAGE_TYPE=950 mt9gen config > .mt9gen/config.yaml`,
	Run: settingsFunc,
}

func settingsFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
		return
	}
	if err := Write(cmd.OutOrStdout(), appContainer.GetConfig()); err != nil {
		logger.Fatalf("Error printing configuration: %v", err)
	}
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error encoding configuration: %w", err)
	}
	return enc.Close()
}
