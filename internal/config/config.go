package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/st3v3nmw/urlblock/internal/types"
)

var (
	All Config
)

type Config struct {
	API     APIConfig     `yaml:"api" json:"api"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	History HistoryConfig `yaml:"history" json:"history"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

type APIConfig struct {
	Host        string   `yaml:"host" json:"host" validate:"omitempty,hostname|ip"`
	Port        uint16   `yaml:"port" json:"port" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
}

// Address is the listen address, host:port. An empty host binds all interfaces.
func (c APIConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StoreConfig struct {
	Path string `yaml:"path" json:"path" validate:"required"`
}

type HistoryConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled"`
	Path          string        `yaml:"path" json:"path" validate:"required_if=Enabled true"`
	Retention     time.Duration `yaml:"retention" json:"retention" validate:"gte=0"`
	FlushInterval time.Duration `yaml:"flush_interval" json:"flush_interval" validate:"required_if=Enabled true,gte=0"`
}

type LogConfig struct {
	Level  string          `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Format types.LogFormat `yaml:"format" json:"format" validate:"oneof=text json"`
}

// Defaults returns the configuration used when no file overrides it.
// Data files live under dataDir.
func Defaults(dataDir string) Config {
	return Config{
		API: APIConfig{
			Host:        "0.0.0.0",
			Port:        5000,
			CORSOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "blocked.json"),
		},
		History: HistoryConfig{
			Enabled:       true,
			Path:          filepath.Join(dataDir, "history.db"),
			Retention:     30 * 24 * time.Hour,
			FlushInterval: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: types.LogFormatText,
		},
	}
}

// Read loads the defaults, overlays the YAML file at filePath when one
// is given and validates the result into All.
func Read(filePath, dataDir string) error {
	cfg := Defaults(dataDir)

	if filePath != "" {
		file, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}

		err = yaml.Unmarshal(file, &cfg)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	All = cfg
	return nil
}
