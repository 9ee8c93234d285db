package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines how to reach the tagging backend, how items are routed to
// models, and how folder batches are filtered.
type Config struct {
	Backend struct {
		URL            string `yaml:"url"`             // Base URL of the tagging backend
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
		RetryMax       int    `yaml:"retry_max"`       // Max HTTP retries per request
	} `yaml:"backend"`
	Models struct {
		Text   string `yaml:"text"`   // Model used for text-like content
		Vision string `yaml:"vision"` // Model used for image-like content
	} `yaml:"models"`
	Classify struct {
		TextExtensions  []string `yaml:"text_extensions"`  // Extensions routed to the text model
		ImageExtensions []string `yaml:"image_extensions"` // Extensions routed to the vision model
	} `yaml:"classify"`
	Ignore []string `yaml:"ignore"` // Glob patterns excluded from folder batches
	Health struct {
		DebounceSeconds int `yaml:"debounce_seconds"` // Delay before a failure-triggered re-check
	} `yaml:"health"`
	Watch struct {
		SettleMillis int `yaml:"settle_millis"` // Quiet period before a watched file is dispatched
	} `yaml:"watch"`
}

// LoadConfig loads configuration from the default location
// (~/.config/tagsense/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "tagsense", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Backend.URL != "" {
		cfg.Backend.URL = tempCfg.Backend.URL
	}
	if tempCfg.Backend.TimeoutSeconds > 0 {
		cfg.Backend.TimeoutSeconds = tempCfg.Backend.TimeoutSeconds
	}
	if tempCfg.Backend.RetryMax > 0 {
		cfg.Backend.RetryMax = tempCfg.Backend.RetryMax
	}
	if tempCfg.Models.Text != "" {
		cfg.Models.Text = tempCfg.Models.Text
	}
	if tempCfg.Models.Vision != "" {
		cfg.Models.Vision = tempCfg.Models.Vision
	}
	if len(tempCfg.Classify.TextExtensions) > 0 {
		cfg.Classify.TextExtensions = tempCfg.Classify.TextExtensions
	}
	if len(tempCfg.Classify.ImageExtensions) > 0 {
		cfg.Classify.ImageExtensions = tempCfg.Classify.ImageExtensions
	}
	if len(tempCfg.Ignore) > 0 {
		cfg.Ignore = tempCfg.Ignore
	}
	if tempCfg.Health.DebounceSeconds > 0 {
		cfg.Health.DebounceSeconds = tempCfg.Health.DebounceSeconds
	}
	if tempCfg.Watch.SettleMillis > 0 {
		cfg.Watch.SettleMillis = tempCfg.Watch.SettleMillis
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
// Model names and extension sets mirror what the tagging backend serves
// out of the box.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Backend.URL = "http://localhost:5000"
	cfg.Backend.TimeoutSeconds = 30
	cfg.Backend.RetryMax = 2

	cfg.Models.Text = "tinyllama"
	cfg.Models.Vision = "llama3.2-vision:11b"

	cfg.Classify.TextExtensions = []string{
		".txt", ".md", ".py", ".js", ".html", ".css", ".json", ".xml",
		".docx", ".pdf",
	}
	cfg.Classify.ImageExtensions = []string{
		".jpg", ".jpeg", ".png", ".gif", ".bmp",
	}

	cfg.Ignore = []string{".*", "*~", "*.tmp"}

	cfg.Health.DebounceSeconds = 1
	cfg.Watch.SettleMillis = 500

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend url is required")
	}
	if c.Backend.TimeoutSeconds < 1 {
		return fmt.Errorf("backend timeout must be >= 1 second")
	}
	if c.Backend.RetryMax < 0 {
		return fmt.Errorf("backend retry_max must be >= 0")
	}

	if c.Models.Text == "" {
		return fmt.Errorf("text model name is required")
	}
	if c.Models.Vision == "" {
		return fmt.Errorf("vision model name is required")
	}

	// Extensions must carry their leading dot so classification can
	// compare against filepath.Ext directly
	for _, ext := range append(append([]string{}, c.Classify.TextExtensions...), c.Classify.ImageExtensions...) {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}

	if c.Health.DebounceSeconds < 1 {
		return fmt.Errorf("health debounce must be >= 1 second")
	}
	if c.Watch.SettleMillis < 0 {
		return fmt.Errorf("watch settle_millis must be >= 0")
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Backend.URL = "http://localhost:5000"
	cfg.Backend.RetryMax = 0
	cfg.Health.DebounceSeconds = 1
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
