// Package config loads picgrid settings from defaults, an optional YAML file
// and PICGRID_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/picgrid/pkg/errors"
)

const (
	EnvPrefix = "PICGRID"
	appDir    = ".picgrid"
)

// Config holds all configuration for the application.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
}

// CatalogConfig holds the remote catalog settings.
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url" validate:"required,http_url"`
	PageSize          int           `mapstructure:"page_size" yaml:"page_size" validate:"min=1,max=100"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gte=0"`
	Burst             int           `mapstructure:"burst" yaml:"burst" validate:"min=1"`
}

// StorageConfig selects the key/value medium for favorites and settings.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver" validate:"kv_driver"`
	Path   string `mapstructure:"path" yaml:"path" validate:"required"`
}

// LoggingConfig controls the application log.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	File          string `mapstructure:"file" yaml:"file"`
	HumanReadable bool   `mapstructure:"human_readable" yaml:"human_readable"`
}

// UIConfig holds presentation toggles.
type UIConfig struct {
	Unicode bool `mapstructure:"unicode" yaml:"unicode"`
}

// DefaultDir returns the directory holding picgrid's config, store and log.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return appDir
	}
	return filepath.Join(home, appDir)
}

// DefaultStoragePath returns the store location for driver.
func DefaultStoragePath(driver string) string {
	if driver == "sqlite" {
		return filepath.Join(DefaultDir(), "store.db")
	}
	return filepath.Join(DefaultDir(), "store.json")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.base_url", "https://picsum.photos")
	v.SetDefault("catalog.page_size", 30)
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.requests_per_second", 5)
	v.SetDefault("catalog.burst", 5)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", filepath.Join(DefaultDir(), "picgrid.log"))
	v.SetDefault("logging.human_readable", false)
	v.SetDefault("ui.unicode", true)
}

// Load resolves configuration. An empty path reads config.yaml from
// DefaultDir when present; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(expandHome(path))
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.NewParseError(path, extractLine(err), err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, apperrors.NewParseError(filepath.Join(DefaultDir(), "config.yaml"), extractLine(err), err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewParseError("config", 0, err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if strings.TrimSpace(cfg.Storage.Path) == "" {
		cfg.Storage.Path = DefaultStoragePath(cfg.Storage.Driver)
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its field constraints.
func Validate(cfg *Config) error {
	if cfg == nil {
		return apperrors.NewValidationError("config", "configuration is nil", nil)
	}
	return convertValidationError(validatorInstance().Struct(cfg))
}

// YAML renders cfg as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
