// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"swiftgen/mt9gen/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AutoMIR is the header.application.mir value that generates the Message
// Input Reference for every message.
const AutoMIR = "auto"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Message struct {
		Type string `mapstructure:"type" yaml:"type"`
	} `mapstructure:"message" yaml:"message"`

	Input struct {
		DateFormat       string `mapstructure:"date_format" yaml:"date_format"`
		StrictValidation bool   `mapstructure:"strict_validation" yaml:"strict_validation"`
		Delimiter        string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"input" yaml:"input"`

	Header struct {
		Basic struct {
			AppID     string `mapstructure:"app_id" yaml:"app_id"`
			ServiceID string `mapstructure:"service_id" yaml:"service_id"`
			Session   string `mapstructure:"session" yaml:"session"`
			Sequence  string `mapstructure:"sequence" yaml:"sequence"`
		} `mapstructure:"basic" yaml:"basic"`

		Application struct {
			Direction          string `mapstructure:"direction" yaml:"direction"`
			Priority           string `mapstructure:"priority" yaml:"priority"`
			DeliveryMonitoring string `mapstructure:"delivery_monitoring" yaml:"delivery_monitoring"`
			Obsolescence       string `mapstructure:"obsolescence" yaml:"obsolescence"`
			InputTime          string `mapstructure:"input_time" yaml:"input_time"`
			OutputDate         string `mapstructure:"output_date" yaml:"output_date"`
			OutputTime         string `mapstructure:"output_time" yaml:"output_time"`
			MIR                string `mapstructure:"mir" yaml:"mir"`
		} `mapstructure:"application" yaml:"application"`

		User struct {
			BankingPriority string `mapstructure:"banking_priority" yaml:"banking_priority"`
			UserReference   string `mapstructure:"user_reference" yaml:"user_reference"`
		} `mapstructure:"user" yaml:"user"`
	} `mapstructure:"header" yaml:"header"`

	Trailer struct {
		Checksum string `mapstructure:"checksum" yaml:"checksum"`
	} `mapstructure:"trailer" yaml:"trailer"`

	Output struct {
		Extension string `mapstructure:"extension" yaml:"extension"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// An empty path searches the default locations.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.mt9gen")
		v.AddConfigPath(".mt9gen")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("MT9")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Not fatal: continue with defaults and env vars
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("message.type", string(models.MT940))

	v.SetDefault("input.date_format", string(models.LayoutDDMMYYYY))
	v.SetDefault("input.strict_validation", true)
	v.SetDefault("input.delimiter", ",")

	// Basic header block
	v.SetDefault("header.basic.app_id", "F")
	v.SetDefault("header.basic.service_id", "21")
	v.SetDefault("header.basic.session", "0000")
	v.SetDefault("header.basic.sequence", "000000")

	// Application header block
	v.SetDefault("header.application.direction", "I")
	v.SetDefault("header.application.priority", "N")
	v.SetDefault("header.application.delivery_monitoring", "")
	v.SetDefault("header.application.obsolescence", "")
	v.SetDefault("header.application.input_time", "0000")
	v.SetDefault("header.application.output_date", "000000")
	v.SetDefault("header.application.output_time", "0000")
	v.SetDefault("header.application.mir", AutoMIR)

	// User header block
	v.SetDefault("header.user.banking_priority", "")
	v.SetDefault("header.user.user_reference", "MT940950GEN")

	v.SetDefault("trailer.checksum", "")

	v.SetDefault("output.extension", ".fin")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if _, err := models.ParseMessageType(config.Message.Type); err != nil {
		return err
	}

	if _, err := models.ParseDateLayout(config.Input.DateFormat); err != nil {
		return err
	}

	if len([]rune(config.Input.Delimiter)) != 1 {
		return fmt.Errorf("input delimiter must be a single character, got: %s", config.Input.Delimiter)
	}

	basic := config.Header.Basic
	if len(basic.AppID) != 1 {
		return fmt.Errorf("header.basic.app_id must be one character, got: %q", basic.AppID)
	}
	if err := digits("header.basic.service_id", basic.ServiceID, 2); err != nil {
		return err
	}
	if err := digits("header.basic.session", basic.Session, 4); err != nil {
		return err
	}
	if err := digits("header.basic.sequence", basic.Sequence, 6); err != nil {
		return err
	}

	app := config.Header.Application
	switch strings.ToUpper(app.Direction) {
	case "I", "O":
	default:
		return fmt.Errorf("header.application.direction must be I or O, got: %q", app.Direction)
	}
	switch app.Priority {
	case "S", "N", "U":
	default:
		return fmt.Errorf("header.application.priority must be S, N or U, got: %q", app.Priority)
	}
	if err := digits("header.application.input_time", app.InputTime, 4); err != nil {
		return err
	}
	if err := digits("header.application.output_date", app.OutputDate, 6); err != nil {
		return err
	}
	if err := digits("header.application.output_time", app.OutputTime, 4); err != nil {
		return err
	}
	if strings.TrimSpace(app.MIR) == "" {
		return fmt.Errorf("header.application.mir must be %q or a literal reference", AutoMIR)
	}

	if bp := strings.TrimSpace(config.Header.User.BankingPriority); bp != "" {
		if len(bp) > 4 || !allDigits(bp) {
			return fmt.Errorf("header.user.banking_priority must be up to 4 digits, got: %q", bp)
		}
	}
	if len(config.Header.User.UserReference) > 16 {
		return fmt.Errorf("header.user.user_reference must be at most 16 characters, got: %q", config.Header.User.UserReference)
	}

	return nil
}

func digits(key, value string, width int) error {
	if len(value) != width || !allDigits(value) {
		return fmt.Errorf("%s must be %d digits, got: %q", key, width, value)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
