package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	HTTPAddr       string
	LogLevel       slog.Level
	LLMProvider    string
	LLMModel       string
	LLMBaseURL     string
	LLMAPIKey      string
	LLMTemperature float64
	LLMTimeout     time.Duration
	AssetsDir      string
}

// fileConfig is the optional TOML file pointed to by TAROT_CONFIG.
// Every field may be omitted; the environment wins over the file.
type fileConfig struct {
	HTTPAddr  string   `toml:"http_addr"`
	LogLevel  string   `toml:"log_level"`
	AssetsDir string   `toml:"assets_dir"`
	LLM       llmTable `toml:"llm"`
}

type llmTable struct {
	Provider    string   `toml:"provider"`
	Model       string   `toml:"model"`
	BaseURL     string   `toml:"base_url"`
	APIKey      string   `toml:"api_key"`
	Temperature *float64 `toml:"temperature"`
	Timeout     string   `toml:"timeout"`
}

var providerDefaults = map[string]struct {
	model   string
	baseURL string
	keyEnv  string
}{
	ProviderOpenAI:     {model: "gpt-3.5-turbo", baseURL: "https://api.openai.com/v1", keyEnv: "OPENAI_API_KEY"},
	ProviderOpenRouter: {model: "openai/gpt-3.5-turbo", baseURL: "https://openrouter.ai/api/v1", keyEnv: "OPENROUTER_API_KEY"},
	ProviderGemini:     {model: "gemini-2.0-flash", baseURL: "", keyEnv: "GEMINI_API_KEY"},
}

// Load builds the server configuration from defaults, the optional TOML file
// and the environment, in that order. A missing API key is not an error: the
// server starts and every reading fails at the boundary instead.
func Load() (Config, error) {
	var fc fileConfig
	if path := os.Getenv("TAROT_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	c := Config{
		HTTPAddr:       envOr("HTTP_ADDR", firstNonEmpty(fc.HTTPAddr, ":8080")),
		LLMProvider:    strings.ToLower(envOr("LLM_PROVIDER", firstNonEmpty(fc.LLM.Provider, ProviderOpenAI))),
		AssetsDir:      envOr("ASSETS_DIR", fc.AssetsDir),
		LLMTemperature: 0.7,
		LLMTimeout:     30 * time.Second,
	}

	defaults, ok := providerDefaults[c.LLMProvider]
	if !ok {
		return Config{}, fmt.Errorf("invalid LLM_PROVIDER %q", c.LLMProvider)
	}
	c.LLMModel = envOr("LLM_MODEL", firstNonEmpty(fc.LLM.Model, defaults.model))
	c.LLMBaseURL = envOr("LLM_BASE_URL", firstNonEmpty(fc.LLM.BaseURL, defaults.baseURL))
	c.LLMAPIKey = firstNonEmpty(os.Getenv(defaults.keyEnv), os.Getenv("LLM_API_KEY"), fc.LLM.APIKey)

	if fc.LLM.Temperature != nil {
		c.LLMTemperature = *fc.LLM.Temperature
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TEMPERATURE %q: %w", v, err)
		}
		c.LLMTemperature = t
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return Config{}, fmt.Errorf("LLM temperature %v out of range [0, 2]", c.LLMTemperature)
	}

	if v := envOr("LLM_TIMEOUT", fc.LLM.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", v, err)
		}
		c.LLMTimeout = d
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", firstNonEmpty(fc.LogLevel, "info")))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
