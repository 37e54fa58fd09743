package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"fetchlist/internal/errors"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL  = "https://fetch-hiring.s3.amazonaws.com/"
	DefaultResource = "hiring.json"
	DefaultTitle    = "Fetch Coding Exercise"
	DefaultTheme    = "default"
)

// Config represents the application configuration structure.
// It defines the remote endpoint, logging, UI preferences and theme.
type Config struct {
	Endpoint struct {
		BaseURL  string `yaml:"base_url"` // Scheme and host of the list endpoint
		Resource string `yaml:"resource"` // Path of the JSON document below BaseURL
	} `yaml:"endpoint"`
	Logging struct {
		Debug bool   `yaml:"debug"` // Enable debug output
		JSON  bool   `yaml:"json"`  // One JSON object per line instead of text
		File  string `yaml:"file"`  // Optional log file; required to see logs in the TUI
	} `yaml:"logging"`
	UI struct {
		Title     string `yaml:"title"`      // Heading shown above the list
		ExpandAll bool   `yaml:"expand_all"` // Start with every group expanded
	} `yaml:"ui"`
	Theme struct {
		Name     string `yaml:"name"`     // Theme name (default, dark, light, etc.)
		Primary  string `yaml:"primary"`  // Primary color for branding
		Success  string `yaml:"success"`  // Success message color
		Warning  string `yaml:"warning"`  // Warning message color
		Error    string `yaml:"error"`    // Error message color
		Info     string `yaml:"info"`     // Informational message color
		Emphasis string `yaml:"emphasis"` // Emphasis color for text that should stand out
		Border   string `yaml:"border"`   // Border color for frames
	} `yaml:"theme"`
}

// DefaultPath returns ~/.config/fetchlist/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fetchlist", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/fetchlist/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
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
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Endpoint.BaseURL != "" {
		cfg.Endpoint.BaseURL = tempCfg.Endpoint.BaseURL
	}
	if tempCfg.Endpoint.Resource != "" {
		cfg.Endpoint.Resource = tempCfg.Endpoint.Resource
	}

	cfg.Logging = tempCfg.Logging

	if tempCfg.UI.Title != "" {
		cfg.UI.Title = tempCfg.UI.Title
	}
	cfg.UI.ExpandAll = tempCfg.UI.ExpandAll

	// A named theme fills in every color, explicit colors then override it
	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}
	overrideColor(&cfg.Theme.Primary, tempCfg.Theme.Primary)
	overrideColor(&cfg.Theme.Success, tempCfg.Theme.Success)
	overrideColor(&cfg.Theme.Warning, tempCfg.Theme.Warning)
	overrideColor(&cfg.Theme.Error, tempCfg.Theme.Error)
	overrideColor(&cfg.Theme.Info, tempCfg.Theme.Info)
	overrideColor(&cfg.Theme.Emphasis, tempCfg.Theme.Emphasis)
	overrideColor(&cfg.Theme.Border, tempCfg.Theme.Border)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func overrideColor(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// defaultConfig returns the default configuration, which targets the
// public hiring endpoint.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Endpoint.BaseURL = DefaultBaseURL
	cfg.Endpoint.Resource = DefaultResource

	cfg.Logging.Debug = false
	cfg.Logging.JSON = false
	cfg.Logging.File = ""

	cfg.UI.Title = DefaultTitle
	cfg.UI.ExpandAll = false

	cfg.ApplyTheme(DefaultTheme)

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
		return errors.ErrInvalidConfig
	}

	u, err := url.Parse(c.Endpoint.BaseURL)
	if err != nil {
		return errors.NewConfigError("invalid base url", "endpoint.base_url", errors.InvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewConfigError("base url must use http or https", "endpoint.base_url", errors.InvalidConfig, nil)
	}
	if u.Host == "" {
		return errors.NewConfigError("base url must include a host", "endpoint.base_url", errors.InvalidConfig, nil)
	}

	if strings.TrimSpace(c.Endpoint.Resource) == "" {
		return errors.NewConfigError("resource is required", "endpoint.resource", errors.InvalidConfig, nil)
	}

	if c.Theme.Name != "" && !isKnownTheme(c.Theme.Name) {
		return errors.NewConfigError(fmt.Sprintf("unknown theme %q", c.Theme.Name), "theme.name", errors.InvalidConfig, nil)
	}

	return nil
}

// ListURL returns the absolute URL of the list document.
func (c *Config) ListURL() (string, error) {
	return url.JoinPath(c.Endpoint.BaseURL, c.Endpoint.Resource)
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	if theme, exists := themes[name]; exists {
		return theme
	}
	return themes[DefaultTheme]
}

var themes = map[string]map[string]string{
	"default": {
		"primary":  "213", // Purple
		"success":  "114", // Green
		"warning":  "220", // Yellow
		"error":    "196", // Red
		"info":     "39",  // Blue
		"emphasis": "212", // Light Pink
		"border":   "213", // Purple
	},
	"dark": {
		"primary":  "105",
		"success":  "78",
		"warning":  "214",
		"error":    "160",
		"info":     "33",
		"emphasis": "147",
		"border":   "105",
	},
	"light": {
		"primary":  "135",
		"success":  "150",
		"warning":  "222",
		"error":    "210",
		"info":     "117",
		"emphasis": "219",
		"border":   "135",
	},
	"monochrome": {
		"primary":  "245",
		"success":  "252",
		"warning":  "241",
		"error":    "232",
		"info":     "248",
		"emphasis": "255",
		"border":   "245",
	},
	"ocean": {
		"primary":  "31",
		"success":  "36",
		"warning":  "220",
		"error":    "196",
		"info":     "33",
		"emphasis": "51",
		"border":   "31",
	},
	"sunset": {
		"primary":  "208",
		"success":  "154",
		"warning":  "214",
		"error":    "196",
		"info":     "69",
		"emphasis": "203",
		"border":   "208",
	},
}

func isKnownTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Warning = theme["warning"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Emphasis = theme["emphasis"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean", "sunset"}
}
