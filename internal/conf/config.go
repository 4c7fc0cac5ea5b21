// config.go: This file contains the configuration for the heritage-go application. It defines the settings struct and functions to load and save the settings.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled    bool   // true to enable this log
	Path       string // Path to the log file
	MaxSize    int    // Maximum size in megabytes before rotation
	MaxBackups int    // Maximum number of old log files to keep
	MaxAge     int    // Maximum number of days to retain old log files
}

// DatabaseSettings contains the database output configuration.
type DatabaseSettings struct {
	SQLite struct {
		Enabled bool   // true to enable sqlite storage
		Path    string // path to sqlite database file
	}
	MySQL struct {
		Enabled  bool   // true to enable mysql storage
		Username string // mysql username
		Password string // mysql password
		Database string // mysql database name
		Host     string // mysql host
		Port     string // mysql port
	}
}

// LanguageSettings contains the language resolution configuration.
type LanguageSettings struct {
	Default string // fallback language code, must be a supported language
}

// ImageSettings contains the image URL resolution configuration.
type ImageSettings struct {
	BaseURL        string // base URL for variant image URLs
	PlaceholderURL string // absolute URL substituted for missing images
}

// StaleTimes holds per-resource-kind cache staleness windows.
type StaleTimes struct {
	Cities    time.Duration // city list entries
	Heritage  time.Duration // heritage detail/content entries
	Languages time.Duration // language catalog entries
	Images    time.Duration // image set entries
}

// ResolveTimeouts holds per-resource-kind resolver deadlines.
type ResolveTimeouts struct {
	Cities    time.Duration
	Heritage  time.Duration
	Languages time.Duration
	Images    time.Duration
}

// RetrySettings bounds the retry policy applied on resolution timeouts.
type RetrySettings struct {
	Attempts int           // additional attempts after the first failure
	Backoff  time.Duration // delay between attempts
}

// CacheSettings contains the content cache configuration.
type CacheSettings struct {
	Debug          bool            // true to enable cache debug logging
	StaleTime      StaleTimes      // per resource kind staleness
	ResolveTimeout ResolveTimeouts // per resource kind resolver deadline
	Retry          RetrySettings   // retry policy for timed out resolutions
}

// Settings contains all configuration options for the heritage-go application.
type Settings struct {
	Debug bool // true to enable debug mode

	// Runtime values, not stored in config file
	Version   string `yaml:"-"` // Version from build
	BuildDate string `yaml:"-"` // Build date from build

	Main struct {
		Name string    // name of this heritage-go node
		Log  LogConfig // logging configuration
	}

	Database  DatabaseSettings // storage configuration
	Languages LanguageSettings // language resolution configuration
	Images    ImageSettings    // image URL configuration
	Cache     CacheSettings    // content cache configuration

	WebServer struct {
		Debug   bool   // true to enable web server debug mode
		Enabled bool   // true to enable web server
		Port    string // port for web server
	}
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	// Initialize viper and read config
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	// Unmarshal the config into settings
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	// Validate settings
	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create config with defaults
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	defaults := &Settings{}
	if err := viper.Unmarshal(defaults); err != nil {
		return fmt.Errorf("error unmarshaling defaults: %w", err)
	}

	content, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return viper.ReadInConfig()
}

// GetDefaultConfigPaths returns the paths where the configuration file is searched for.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error resolving user config directory: %w", err)
	}

	return []string{
		".",
		filepath.Join(configDir, "heritage-go"),
	}, nil
}

// Setting returns the current settings instance. It is nil until Load has been called.
func Setting() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// StaleTimeFor returns the configured staleness window for a resource kind,
// falling back to the heritage window for unknown kinds.
func (c *CacheSettings) StaleTimeFor(kind string) time.Duration {
	switch kind {
	case "cities":
		return c.StaleTime.Cities
	case "heritage":
		return c.StaleTime.Heritage
	case "languages":
		return c.StaleTime.Languages
	case "images":
		return c.StaleTime.Images
	default:
		return c.StaleTime.Heritage
	}
}

// ResolveTimeoutFor returns the configured resolver deadline for a resource kind.
func (c *CacheSettings) ResolveTimeoutFor(kind string) time.Duration {
	switch kind {
	case "cities":
		return c.ResolveTimeout.Cities
	case "heritage":
		return c.ResolveTimeout.Heritage
	case "languages":
		return c.ResolveTimeout.Languages
	case "images":
		return c.ResolveTimeout.Images
	default:
		return c.ResolveTimeout.Heritage
	}
}
