package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings
type Config struct {
	// Active backend provider: "openai" or "gemini"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Provider credentials and models
	OpenAI OpenAIConfig `yaml:"openai" mapstructure:"openai"`
	Gemini GeminiConfig `yaml:"gemini" mapstructure:"gemini"`

	// Generation settings
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`

	// Report shaping
	Report ReportConfig `yaml:"report" mapstructure:"report"`

	// Request throttling
	Limits LimitsConfig `yaml:"limits" mapstructure:"limits"`

	// Logging
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

type GenerationConfig struct {
	MaxTokens    int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature  float32 `yaml:"temperature" mapstructure:"temperature"`
	MaxDiffLines int     `yaml:"max_diff_lines" mapstructure:"max_diff_lines"`
}

type ReportConfig struct {
	RecentCommits int `yaml:"recent_commits" mapstructure:"recent_commits"`
	TopFiles      int `yaml:"top_files" mapstructure:"top_files"`
	TopCommits    int `yaml:"top_commits" mapstructure:"top_commits"`
}

type LimitsConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

type LogConfig struct {
	Directory string `yaml:"directory" mapstructure:"directory"` // empty = no session log file
}

// Supported provider names.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Default returns default configuration
func Default() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Generation: GenerationConfig{
			MaxTokens:    500,
			Temperature:  0.2,
			MaxDiffLines: 400,
		},
		Report: ReportConfig{
			RecentCommits: 5,
			TopFiles:      5,
			TopCommits:    5,
		},
		Limits: LimitsConfig{
			RequestsPerMinute: 20,
		},
		Log: LogConfig{
			Directory: filepath.Join(ConfigDir(), "logs"),
		},
	}
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".gitscribe")
}

// DefaultConfigPath returns the path Save writes to when none is given.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	v.SetDefault("provider", cfg.Provider)
	v.SetDefault("openai", cfg.OpenAI)
	v.SetDefault("gemini", cfg.Gemini)
	v.SetDefault("generation", cfg.Generation)
	v.SetDefault("report", cfg.Report)
	v.SetDefault("limits", cfg.Limits)
	v.SetDefault("log", cfg.Log)

	// Load from environment variables
	v.SetEnvPrefix("GITSCRIBE")
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".gitscribe")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	// Also try loading from the config directory
	homeEnvFile := filepath.Join(ConfigDir(), ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
// Credential precedence: 1. Env var (highest) 2. Keychain 3. Config file.
func applyEnvOverrides(cfg *Config) {
	if provider := os.Getenv("GITSCRIBE_PROVIDER"); provider != "" {
		cfg.Provider = provider
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		// Environment variable has highest precedence (for CI/CD)
		cfg.OpenAI.APIKey = key
	} else if cfg.OpenAI.APIKey == "" {
		km := NewKeyringManager()
		if km.IsAvailable() {
			if keychainKey, err := km.GetAPIKey(ProviderOpenAI); err == nil && keychainKey != "" {
				cfg.OpenAI.APIKey = keychainKey
			}
		}
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.OpenAI.Model = model
	}

	// The Gemini SDK's own convention is GOOGLE_API_KEY; accept both.
	if key := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	} else if cfg.Gemini.APIKey == "" {
		km := NewKeyringManager()
		if km.IsAvailable() {
			if keychainKey, err := km.GetAPIKey(ProviderGemini); err == nil && keychainKey != "" {
				cfg.Gemini.APIKey = keychainKey
			}
		}
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Gemini.Model = model
	}

	if maxTokens := os.Getenv("GITSCRIBE_MAX_TOKENS"); maxTokens != "" {
		if n, err := strconv.Atoi(maxTokens); err == nil {
			cfg.Generation.MaxTokens = n
		}
	}
	if rpm := os.Getenv("GITSCRIBE_REQUESTS_PER_MINUTE"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			cfg.Limits.RequestsPerMinute = n
		}
	}
	if dir := os.Getenv("GITSCRIBE_LOG_DIR"); dir != "" {
		cfg.Log.Directory = expandPath(dir)
	}
}

// firstEnv returns the first non-empty value among the named variables.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// APIKey returns the key for the active provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.APIKey
	}
	return c.OpenAI.APIKey
}

// SetAPIKey sets the active provider's key in memory only; Save persists
// it if the caller wants that.
func (c *Config) SetAPIKey(key string) {
	if c.Provider == ProviderGemini {
		c.Gemini.APIKey = key
		return
	}
	c.OpenAI.APIKey = key
}

// Model returns the model for the active provider.
func (c *Config) Model() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.Model
	}
	return c.OpenAI.Model
}

// Validate checks the configuration for values no flow can work with.
func (c *Config) Validate() error {
	if c.Provider != ProviderOpenAI && c.Provider != ProviderGemini {
		return fmt.Errorf("unknown provider %q (expected %q or %q)", c.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens)
	}
	if c.Limits.RequestsPerMinute <= 0 {
		return fmt.Errorf("limits.requests_per_minute must be positive, got %d", c.Limits.RequestsPerMinute)
	}
	if c.Report.RecentCommits <= 0 || c.Report.TopFiles <= 0 || c.Report.TopCommits <= 0 {
		return fmt.Errorf("report bounds must be positive")
	}
	return nil
}

// Save writes the configuration to path with user-only permissions, since
// the file may carry an API key when no OS keychain is available.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
