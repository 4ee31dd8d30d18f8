package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir  = ".intelliagent"
	DefaultConfigFile = "config.yaml"

	DefaultBackendURL = "http://localhost:8000"
	DefaultGreeting   = "Hello! I'm your AI assistant. I can help you understand this PDF document. What would you like to know?"
)

// Environment overrides, applied after the config file and .env are read
const (
	EnvBackendURL     = "INTELLIAGENT_BACKEND_URL"
	EnvRequestTimeout = "INTELLIAGENT_REQUEST_TIMEOUT"
	EnvHistoryEnabled = "INTELLIAGENT_HISTORY"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Chat    ChatConfig    `yaml:"chat"`
	History HistoryConfig `yaml:"history"`
}

// BackendConfig describes how to reach the document backend
type BackendConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// RequestTimeout of 0 leaves requests bounded only by the transport
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gte=0"`
}

// ChatConfig controls the chat pane
type ChatConfig struct {
	// Greeting is the scripted first assistant message of every conversation
	Greeting string `yaml:"greeting" validate:"required"`

	// ScrollThreshold is the distance from the bottom, in lines, past which
	// the scroll-to-bottom affordance is shown
	ScrollThreshold int `yaml:"scroll_threshold" validate:"gte=1"`

	// ScrollStep is how many lines each smooth-scroll frame moves
	ScrollStep int `yaml:"scroll_step" validate:"gte=1,lte=50"`
}

// HistoryConfig controls the recent-uploads store
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries" validate:"gte=1,lte=500"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        DefaultBackendURL,
			RequestTimeout: 0,
		},
		Chat: ChatConfig{
			Greeting:        DefaultGreeting,
			ScrollThreshold: 5, // roughly 100px of a browser chat list
			ScrollStep:      3,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 20,
		},
	}
}

// GetConfigDir returns the directory holding config, logs and history
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, DefaultConfigDir), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, DefaultConfigFile), nil
}

// Load loads the configuration from the default location, creating it if missing.
// A .env file in the working directory is read first; INTELLIAGENT_* variables
// override values from the file.
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, writing defaults there if
// the file does not exist yet
func LoadFrom(configPath string) (*Config, error) {
	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		// The app still works when the config can't be written
		_ = SaveTo(configPath, cfg)
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Start from defaults so keys missing in the file keep their default
		cfg = DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveTo saves the configuration to configPath
func SaveTo(configPath string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.BaseURL = v
	}

	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		c.Backend.RequestTimeout = d
	}

	if v := os.Getenv(EnvHistoryEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHistoryEnabled, err)
		}
		c.History.Enabled = enabled
	}

	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("%s failed on '%s' tag (value %v)", e.Namespace(), e.Tag(), e.Value())
		}
		return err
	}

	return nil
}
