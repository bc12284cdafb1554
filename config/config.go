package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ai_copywriter/generator"
	"ai_copywriter/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. COPYWRITER_MODEL.
const EnvPrefix = "COPYWRITER"

// APIKeySecret is the Docker secret consulted when no key is configured.
const APIKeySecret = "ai_api_key"

// Config is the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type GenerationConfig struct {
	MaxTokens   int           `yaml:"max_tokens"`
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	AutoQA      bool          `yaml:"auto_qa"`
	Variants    int           `yaml:"variants"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
	Output   string `yaml:"output"`
}

type ServerConfig struct {
	Addr               string        `yaml:"addr"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
}

// envOverrides are read with envconfig; unset values leave the file config alone.
type envOverrides struct {
	Provider           string         `envconfig:"PROVIDER"`
	Model              string         `envconfig:"MODEL"`
	APIKey             string         `envconfig:"API_KEY"`
	BaseURL            string         `envconfig:"BASE_URL"`
	Timeout            *time.Duration `envconfig:"TIMEOUT"`
	RequestsPerMinute  *int           `envconfig:"REQUESTS_PER_MINUTE"`
	MaxTokens          *int           `envconfig:"MAX_TOKENS"`
	MaxAttempts        *int           `envconfig:"MAX_ATTEMPTS"`
	BaseDelay          *time.Duration `envconfig:"BASE_DELAY"`
	AutoQA             *bool          `envconfig:"AUTO_QA"`
	LogLevel           string         `envconfig:"LOG_LEVEL"`
	LogEncoding        string         `envconfig:"LOG_ENCODING"`
	Addr               string         `envconfig:"ADDR"`
	CORSAllowedOrigins []string       `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider: generator.ProviderOpenAI,
			Model:    "gpt-4.1",
			Timeout:  120 * time.Second,
		},
		Generation: GenerationConfig{
			MaxTokens:   generator.DefaultMaxOutputTokens,
			MaxAttempts: generator.DefaultMaxAttempts,
			BaseDelay:   generator.DefaultBaseDelay,
			AutoQA:      true,
			Variants:    generator.DefaultVariantCount,
		},
		Log: LogConfig{Level: "info", Encoding: "console"},
		Server: ServerConfig{
			Addr:           ":8080",
			SessionTTL:     2 * time.Hour,
			RequestTimeout: 5 * time.Minute,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (optional), then a .env
// file and COPYWRITER_* variables. A missing API key falls back to the provider's conventional
// variable and finally to /run/secrets/ai_api_key.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// A .env file is optional.
	_ = godotenv.Load()

	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("error processing env vars: %w", err)
	}
	env.apply(&cfg)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKeyFromEnv(cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		if key, err := ReadSecret(APIKeySecret); err == nil {
			cfg.LLM.APIKey = key
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (e envOverrides) apply(cfg *Config) {
	setString(&cfg.LLM.Provider, e.Provider)
	setString(&cfg.LLM.Model, e.Model)
	setString(&cfg.LLM.APIKey, e.APIKey)
	setString(&cfg.LLM.BaseURL, e.BaseURL)
	setString(&cfg.Log.Level, e.LogLevel)
	setString(&cfg.Log.Encoding, e.LogEncoding)
	setString(&cfg.Server.Addr, e.Addr)
	if e.Timeout != nil {
		cfg.LLM.Timeout = *e.Timeout
	}
	if e.RequestsPerMinute != nil {
		cfg.LLM.RequestsPerMinute = *e.RequestsPerMinute
	}
	if e.MaxTokens != nil {
		cfg.Generation.MaxTokens = *e.MaxTokens
	}
	if e.MaxAttempts != nil {
		cfg.Generation.MaxAttempts = *e.MaxAttempts
	}
	if e.BaseDelay != nil {
		cfg.Generation.BaseDelay = *e.BaseDelay
	}
	if e.AutoQA != nil {
		cfg.Generation.AutoQA = *e.AutoQA
	}
	if len(e.CORSAllowedOrigins) > 0 {
		cfg.Server.CORSAllowedOrigins = e.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func providerKeyFromEnv(provider string) string {
	switch strings.ToLower(provider) {
	case generator.ProviderOpenAI, "":
		return os.Getenv("OPENAI_API_KEY")
	case generator.ProviderDeepSeek:
		return os.Getenv("DEEPSEEK_API_KEY")
	case generator.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return ""
}

// Validate rejects values the rest of the application cannot work with.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.LLM.Provider) {
	case generator.ProviderOpenAI, generator.ProviderDeepSeek, generator.ProviderAnthropic,
		generator.ProviderOllama, generator.ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("llm.provider %q not supported", c.LLM.Provider))
	}
	if c.Generation.MaxTokens <= 0 {
		errs = append(errs, errors.New("generation.max_tokens must be positive"))
	}
	if c.Generation.MaxAttempts <= 0 {
		errs = append(errs, errors.New("generation.max_attempts must be positive"))
	}
	if c.Generation.BaseDelay < 0 {
		errs = append(errs, errors.New("generation.base_delay must not be negative"))
	}
	if c.LLM.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("llm.requests_per_minute must not be negative"))
	}
	return errors.Join(errs...)
}

// LLMSettings is the provider configuration for generator.NewLLM.
func (c Config) LLMSettings() *generator.LLMSettings {
	return &generator.LLMSettings{
		Provider: strings.ToLower(c.LLM.Provider),
		Model:    c.LLM.Model,
		APIKey:   c.LLM.APIKey,
		BaseURL:  c.LLM.BaseURL,
		Timeout:  c.LLM.Timeout,
	}
}

// CompleterConfig is the retry and rate-limit policy for generator.NewCompleter.
func (c Config) CompleterConfig() generator.CompleterConfig {
	return generator.CompleterConfig{
		Provider:          strings.ToLower(c.LLM.Provider),
		Model:             c.LLM.Model,
		MaxAttempts:       c.Generation.MaxAttempts,
		BaseDelay:         c.Generation.BaseDelay,
		RequestsPerMinute: c.LLM.RequestsPerMinute,
	}
}

func (c Config) AgentConfig() generator.AgentConfig {
	return generator.AgentConfig{MaxTokens: c.Generation.MaxTokens, AutoQA: c.Generation.AutoQA}
}

func (c Config) LoggerConfig() logger.Config {
	return logger.Config{Level: c.Log.Level, Encoding: c.Log.Encoding, OutputPath: c.Log.Output}
}

var secretsDir = "/run/secrets"

// ReadSecret reads a Docker secret by name.
func ReadSecret(name string) (string, error) {
	filePath := secretsDir + "/" + name
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
