package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikogura/tex-tailor/pkg/llm"
	"github.com/pkg/errors"
)

// Supported editing providers.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config represents the application configuration.
type Config struct {
	Provider        string        `json:"provider"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	OpenAIAPIKey    string        `json:"openai_api_key,omitempty"`
	GeminiAPIKey    string        `json:"gemini_api_key,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Editing         EditingConfig `json:"editing"`
	LaTeX           LaTeXConfig   `json:"latex"`
	Defaults        DefaultConfig `json:"defaults"`
}

// ModelsConfig holds the model used by each provider.
type ModelsConfig struct {
	Claude string `json:"claude,omitempty"`
	OpenAI string `json:"openai,omitempty"`
	Gemini string `json:"gemini,omitempty"`
}

// EditingConfig controls how sections are sent to the model.
type EditingConfig struct {
	// Stateful keeps one conversation per resume so later sections see earlier edits.
	Stateful       bool `json:"stateful"`
	Concurrency    int  `json:"concurrency"`
	MaxTokens      int  `json:"max_tokens,omitempty"`
	MaxRetries     int  `json:"max_retries,omitempty"`
	TimeoutSeconds int  `json:"timeout_seconds,omitempty"`
}

// LaTeXConfig holds build-tool configuration.
type LaTeXConfig struct {
	Engine string   `json:"engine"`
	Args   []string `json:"args,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// Model returns the configured model for the selected provider, or its default.
func (c *Config) Model() (model string) {
	switch c.Provider {
	case ProviderOpenAI:
		model = c.Models.OpenAI
		if model == "" {
			model = llm.DefaultOpenAIModel
		}
	case ProviderGemini:
		model = c.Models.Gemini
		if model == "" {
			model = llm.DefaultGeminiModel
		}
	default:
		model = c.Models.Claude
		if model == "" {
			model = llm.DefaultClaudeModel
		}
	}
	return model
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() (key string) {
	switch c.Provider {
	case ProviderOpenAI:
		key = c.OpenAIAPIKey
	case ProviderGemini:
		key = c.GeminiAPIKey
	default:
		key = c.AnthropicAPIKey
	}
	return key
}

// Timeout returns the per-call model timeout.
func (c *Config) Timeout() (timeout time.Duration) {
	timeout = time.Duration(c.Editing.TimeoutSeconds) * time.Second
	return timeout
}

// DefaultPath returns $HOME/.tex-tailor/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".tex-tailor", "config.json")
	return path, err
}

// Load reads configuration from file with .env and environment variable overrides.
// A missing file at the default location is not an error; a missing explicit
// path is. A non-empty provider overrides both and is applied before validation.
func Load(configPath, provider string) (cfg Config, err error) {
	// A .env in the working directory is optional
	_ = godotenv.Load()

	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'tex-tailor init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()
	if provider != "" {
		cfg.Provider = provider
	}

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file values with environment variables if set.
func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.OpenAIAPIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.GeminiAPIKey = apiKey
	}
	if provider := os.Getenv("TEX_TAILOR_PROVIDER"); provider != "" {
		c.Provider = provider
	}
}

// Validate fills defaults and checks that all required configuration is present.
func (c *Config) Validate() (err error) {
	if c.Provider == "" {
		c.Provider = ProviderClaude
	}

	switch c.Provider {
	case ProviderClaude, ProviderOpenAI, ProviderGemini:
	default:
		err = errors.Errorf("unknown provider '%s': must be 'claude', 'openai', or 'gemini'", c.Provider)
		return err
	}

	if c.APIKey() == "" {
		err = errors.Errorf("api key for provider '%s' is required (set in config or %s env var)", c.Provider, envKeyName(c.Provider))
		return err
	}

	if c.Editing.Concurrency < 1 {
		c.Editing.Concurrency = 1
	}

	if c.Editing.MaxTokens <= 0 {
		c.Editing.MaxTokens = llm.DefaultMaxTokens
	}

	if c.Editing.MaxRetries < 0 {
		c.Editing.MaxRetries = 0
	}

	if c.Editing.TimeoutSeconds <= 0 {
		c.Editing.TimeoutSeconds = 120
	}

	if c.LaTeX.Engine == "" {
		c.LaTeX.Engine = "latexmk"
	}

	// Set default output_dir if not specified
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./tailored"
	}

	return err
}

func envKeyName(provider string) (name string) {
	switch provider {
	case ProviderOpenAI:
		name = "OPENAI_API_KEY"
	case ProviderGemini:
		name = "GEMINI_API_KEY"
	default:
		name = "ANTHROPIC_API_KEY"
	}
	return name
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (path string, err error) {
	// Determine config file location
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	defaultConfig := Config{
		Provider:        ProviderClaude,
		AnthropicAPIKey: "sk-ant-api03-...",
		Models: ModelsConfig{
			Claude: llm.DefaultClaudeModel,
			OpenAI: llm.DefaultOpenAIModel,
			Gemini: llm.DefaultGeminiModel,
		},
		Editing: EditingConfig{
			Stateful:       false,
			Concurrency:    1,
			MaxTokens:      4096,
			MaxRetries:     2,
			TimeoutSeconds: 120,
		},
		LaTeX: LaTeXConfig{
			Engine: "latexmk",
		},
		Defaults: DefaultConfig{
			OutputDir: "./tailored",
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return path, err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
