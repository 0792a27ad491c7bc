package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ValidProviders lists the interpreter backends the server can wire.
var ValidProviders = []string{ProviderNone, ProviderOpenAI, ProviderGemini}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Inventory   InventoryConfig   `yaml:"inventory"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Journal     JournalConfig     `yaml:"journal"`
	Redis       RedisConfig       `yaml:"redis"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type InventoryConfig struct {
	// Initial maps item names or aliases to starting counts.
	Initial map[string]int `yaml:"initial"`
}

type InterpreterConfig struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	CapabilityPath string        `yaml:"capability_path"`
}

type JournalConfig struct {
	Workers   int    `yaml:"workers"`
	QueueSize int    `yaml:"queue_size"`
	MySQLDSN  string `yaml:"mysql_dsn"`
}

type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":50051",
			ShutdownTimeout: 5 * time.Second,
		},
		Inventory: InventoryConfig{
			Initial: map[string]int{"shirts": 20, "pants": 15},
		},
		Interpreter: InterpreterConfig{
			Provider:   ProviderNone,
			Timeout:    10 * time.Second,
			MaxRetries: 2,
		},
		Journal: JournalConfig{
			Workers:   2,
			QueueSize: 1000,
		},
		Redis: RedisConfig{
			IdempotencyTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies a
// .env file and environment overrides. A missing file leaves the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.HTTPAddr = v
	}
	if v := os.Getenv("GRPC_ADDR"); v != "" {
		c.Server.GRPCAddr = v
	}
	if v := os.Getenv("INTERPRETER_PROVIDER"); v != "" {
		c.Interpreter.Provider = v
	}
	if v := os.Getenv("INTERPRETER_MODEL"); v != "" {
		c.Interpreter.Model = v
	}

	// A key only applies to its own provider; a bare key picks the provider
	// when none was chosen.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.Interpreter.Provider == ProviderNone || c.Interpreter.Provider == "" {
			c.Interpreter.Provider = ProviderOpenAI
		}
		if c.Interpreter.Provider == ProviderOpenAI {
			c.Interpreter.APIKey = key
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if c.Interpreter.Provider == ProviderNone || c.Interpreter.Provider == "" {
			c.Interpreter.Provider = ProviderGemini
		}
		if c.Interpreter.Provider == ProviderGemini {
			c.Interpreter.APIKey = key
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		c.Journal.MySQLDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JOURNAL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOURNAL_WORKERS must be an integer: %w", err)
		}
		c.Journal.Workers = n
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validProvider := false
	for _, p := range ValidProviders {
		if c.Interpreter.Provider == p {
			validProvider = true
			break
		}
	}
	if !validProvider {
		return fmt.Errorf("invalid interpreter provider: %s (valid: %v)", c.Interpreter.Provider, ValidProviders)
	}
	if c.Interpreter.Provider != ProviderNone && c.Interpreter.APIKey == "" {
		return fmt.Errorf("interpreter %s requires an API key (set OPENAI_API_KEY or GEMINI_API_KEY)", c.Interpreter.Provider)
	}
	if c.Interpreter.Timeout <= 0 {
		return fmt.Errorf("interpreter timeout must be positive")
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}
	if c.Server.GRPCAddr == "" {
		return fmt.Errorf("server.grpc_addr is required")
	}
	if c.Journal.Workers < 1 {
		return fmt.Errorf("journal.workers must be at least 1")
	}
	if c.Journal.QueueSize < 1 {
		return fmt.Errorf("journal.queue_size must be at least 1")
	}
	for item, n := range c.Inventory.Initial {
		if n < 0 {
			return fmt.Errorf("inventory.initial.%s must not be negative", item)
		}
	}
	return nil
}

// InitialCounts resolves the configured starting counts against the catalog.
func (c InventoryConfig) InitialCounts(catalog *domain.Catalog) (domain.Counts, error) {
	counts := make(domain.Counts, len(c.Initial))
	for name, n := range c.Initial {
		kind, ok := catalog.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("inventory.initial: %w", domain.UnknownItemf("%q is not a tracked item", name))
		}
		counts[kind] = n
	}
	return counts, nil
}
