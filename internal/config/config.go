// Package config provides configuration loading and access.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the application configuration root.
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Session       SessionConfig       `yaml:"session" mapstructure:"session"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Extraction    ExtractionConfig    `yaml:"extraction" mapstructure:"extraction"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig holds service identity settings.
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig holds HTTP server settings.
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig holds chat-completion provider settings.
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig is one completion provider.
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	// Store selects the backing store: "memory" or "redis".
	Store string        `yaml:"store" mapstructure:"store"`
	TTL   time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig holds Redis settings.
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ExtractionConfig holds context upload settings.
type ExtractionConfig struct {
	// MaxFileBytes caps the size of an uploaded context file.
	MaxFileBytes int64 `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
}

// ObservabilityConfig holds logging/tracing/metrics settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig holds tracing settings.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig holds rate-limit and CORS settings.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig holds rate limiter settings.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// Validate checks startup invariants. A missing API key for the default
// provider is fatal: the service cannot do anything without it.
func (c *Config) Validate() error {
	provider := strings.TrimSpace(c.LLM.DefaultProvider)
	if provider == "" {
		return fmt.Errorf("llm.default_provider is required")
	}
	providerCfg, ok := c.LLM.Providers[provider]
	if !ok {
		return fmt.Errorf("llm.providers.%s is not configured", provider)
	}
	if isUnset(providerCfg.APIKey) {
		return fmt.Errorf("llm.providers.%s.api_key is required", provider)
	}
	if isUnset(providerCfg.Model) {
		return fmt.Errorf("llm.providers.%s.model is required", provider)
	}

	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be \"memory\" or \"redis\", got %q", c.Session.Store)
	}

	if c.Security.RateLimit.Enabled && c.Session.Store != "redis" {
		return fmt.Errorf("security.rate_limit requires session.store \"redis\"")
	}
	return nil
}

// isUnset treats an unresolved ${VAR} placeholder the same as an empty
// value: the env var it points at was never provided.
func isUnset(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.Contains(s, "${")
}
