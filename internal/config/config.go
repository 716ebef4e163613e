package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/benwest/storycast/internal/llm"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Source     Source     `yaml:"source"`
	Generation Generation `yaml:"generation"`
	Output     Output     `yaml:"output"`
	Logging    Logging    `yaml:"logging"`
}

type Source struct {
	ExportDir  string `yaml:"export_dir"`
	ScenesFile string `yaml:"scenes_file"`
}

type Generation struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	OllamaURL       string `yaml:"ollama_url"`
	OpenAIModel     string `yaml:"openai_model"`
	APIKeyEnv       string `yaml:"api_key_env"`
	GeminiModel     string `yaml:"gemini_model"`
	GeminiAPIKeyEnv string `yaml:"gemini_api_key_env"`
	MaxTokens       int    `yaml:"max_tokens"`
	MaxRetries      int    `yaml:"max_retries"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
	VoiceStyle      string `yaml:"voice_style"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for storycast.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "storycast")
}

// DataDir returns the XDG data directory for storycast.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "storycast")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/storycast/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'storycast init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Source: Source{
			ExportDir: "./story-export",
		},
		Generation: Generation{
			Provider:        "ollama",
			Model:           "qwen2.5:7b",
			OllamaURL:       "http://localhost:11434",
			OpenAIModel:     "gpt-4o-mini",
			APIKeyEnv:       "OPENAI_API_KEY",
			GeminiModel:     "gemini-2.0-flash",
			GeminiAPIKeyEnv: "GEMINI_API_KEY",
			MaxTokens:       1024,
			MaxRetries:      2,
			TimeoutSeconds:  30,
			VoiceStyle:      "ben_west",
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DraftsDir is where archives, the manifest, and the preview land.
func (c *Config) DraftsDir() string {
	return filepath.Join(c.GetDataDir(), "drafts")
}

// CodexPath is the parsed codex JSON location.
func (c *Config) CodexPath() string {
	return filepath.Join(c.GetDataDir(), "character_codex.json")
}

// DBPath is the sqlite draft ledger location.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "storycast.db")
}

// Timeout returns the per-request generation timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Generation.TimeoutSeconds) * time.Second
}

// ProviderConfig maps generation settings onto the llm provider factory.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	g := c.Generation
	return llm.ProviderConfig{
		Provider:        g.Provider,
		Model:           g.Model,
		OllamaURL:       g.OllamaURL,
		OpenAIModel:     g.OpenAIModel,
		APIKeyEnv:       g.APIKeyEnv,
		GeminiModel:     g.GeminiModel,
		GeminiAPIKeyEnv: g.GeminiAPIKeyEnv,
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
