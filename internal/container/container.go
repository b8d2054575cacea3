// Package container provides dependency injection for the mt9gen application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"os"
	"strings"

	"swiftgen/mt9gen/internal/batch"
	"swiftgen/mt9gen/internal/common"
	"swiftgen/mt9gen/internal/config"
	"swiftgen/mt9gen/internal/converter"
	"swiftgen/mt9gen/internal/logging"
	"swiftgen/mt9gen/internal/models"
	"swiftgen/mt9gen/internal/mt9"
	"swiftgen/mt9gen/internal/normalizer"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	settings   mt9.Settings
	normalizer *normalizer.Normalizer
	converter  *converter.Converter
	batch      *batch.Processor
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...converter.Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format, logging.WithOutput(os.Stderr))

	settings, err := SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	layout, err := models.ParseDateLayout(cfg.Input.DateFormat)
	if err != nil {
		return nil, err
	}
	norm := normalizer.New(layout, cfg.Input.StrictValidation)

	if runes := []rune(cfg.Input.Delimiter); len(runes) == 1 {
		common.SetDelimiter(runes[0])
	}

	conv := converter.New(settings, norm, logger, opts...)
	proc := batch.NewProcessor(conv, logger, ".csv", cfg.Output.Extension)

	logger.Debug("Container initialized",
		logging.F(logging.FieldMessageType, string(settings.MessageType)),
		logging.F(logging.FieldDateFormat, string(layout)))

	return &Container{
		logger:     logger,
		config:     cfg,
		settings:   settings,
		normalizer: norm,
		converter:  conv,
		batch:      proc,
	}, nil
}

// SettingsFromConfig builds assembler settings. Optional header and trailer
// values are resolved here, once.
func SettingsFromConfig(cfg *config.Config) (mt9.Settings, error) {
	msgType, err := models.ParseMessageType(cfg.Message.Type)
	if err != nil {
		return mt9.Settings{}, err
	}
	direction, err := mt9.ParseDirection(cfg.Header.Application.Direction)
	if err != nil {
		return mt9.Settings{}, err
	}

	mir := mt9.AutoMIR()
	if v := strings.TrimSpace(cfg.Header.Application.MIR); !strings.EqualFold(v, config.AutoMIR) {
		mir = mt9.LiteralMIR(v)
	}

	app := cfg.Header.Application
	return mt9.Settings{
		MessageType: msgType,
		Basic: mt9.BasicHeader{
			AppID:     cfg.Header.Basic.AppID,
			ServiceID: cfg.Header.Basic.ServiceID,
			Session:   cfg.Header.Basic.Session,
			Sequence:  cfg.Header.Basic.Sequence,
		},
		Application: mt9.ApplicationHeader{
			Direction:          direction,
			Priority:           app.Priority,
			DeliveryMonitoring: app.DeliveryMonitoring,
			Obsolescence:       app.Obsolescence,
			InputTime:          app.InputTime,
			OutputDate:         app.OutputDate,
			OutputTime:         app.OutputTime,
			MIR:                mir,
		},
		User: mt9.UserHeader{
			BankingPriority: mt9.BankingPriority(cfg.Header.User.BankingPriority),
			UserReference:   cfg.Header.User.UserReference,
		},
		Checksum: mt9.OptionalString(cfg.Trailer.Checksum),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetSettings returns the assembler settings built from the configuration.
func (c *Container) GetSettings() mt9.Settings {
	return c.settings
}

// GetNormalizer returns the field normalizer.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// GetConverter returns the statement converter.
func (c *Container) GetConverter() *converter.Converter {
	return c.converter
}

// GetBatchProcessor returns the directory batch processor.
func (c *Container) GetBatchProcessor() *batch.Processor {
	return c.batch
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
