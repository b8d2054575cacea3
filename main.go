package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"swiftgen/mt9gen/cmd/batch"
	"swiftgen/mt9gen/cmd/convert"
	"swiftgen/mt9gen/cmd/inspect"
	"swiftgen/mt9gen/cmd/normalize"
	"swiftgen/mt9gen/cmd/root"
	"swiftgen/mt9gen/cmd/settings"
	"swiftgen/mt9gen/internal/config"

	"github.com/joho/godotenv"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure the bootstrap logger from LOG_LEVEL / LOG_FORMAT
	config.ConfigureLogging()

	// 3. Now that logging is configured, initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
	root.Cmd.AddCommand(settings.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
