package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultLLMURL is the Hugging Face router chat-completion endpoint
	DefaultLLMURL = "https://router.huggingface.co/v1/chat/completions"

	defaultSecretsDir = "/run/secrets"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration, optional
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Model gateway
	LLMURL     string
	LLMToken   string
	LLMModel   string
	LLMTimeout time.Duration

	// Generation rate limit per user
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Diagnostics archive, disabled when the bucket is empty
	S3Bucket  string
	AWSRegion string

	CatalogPath string
	Catalog     *Catalog
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN builds the lib/pq connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig reads a .env file when present, then environment variables and secrets
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg, err := load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func load(env Environment) (*Config, error) {
	cfg := &Config{
		Environment: env,
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		ServerHost:  getEnv("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		SQLitePath: getEnv("SQLITE_PATH", "mealmind.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBName:     getEnv("DB_NAME", "mealmind"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		DBPassword: readSecret(env, "db_password"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisURL:      os.Getenv("REDIS_URL"),
		RedisPassword: readSecret(env, "redis_password"),

		JWTSecret: readSecret(env, "jwt_secret"),

		LLMURL:   getEnv("LLM_URL", DefaultLLMURL),
		LLMToken: readSecret(env, "llm_api_token"),
		LLMModel: os.Getenv("LLM_MODEL"),

		S3Bucket:  os.Getenv("S3_DIAGNOSTICS_BUCKET"),
		AWSRegion: os.Getenv("AWS_REGION"),

		CatalogPath: os.Getenv("CATALOG_PATH"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitRequests, err = getEnvInt("RATE_LIMIT_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getEnvDuration("LLM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.Catalog, err = LoadCatalog(cfg.CatalogPath); err != nil {
		return nil, err
	}
	if cfg.LLMModel == "" && len(cfg.Catalog.Models) > 0 {
		cfg.LLMModel = cfg.Catalog.Models[0]
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getEnvList splits a comma-separated variable, dropping blank entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("not an integer: %q", v)}
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("not a duration: %q", v)}
	}
	return d, nil
}

// readSecret resolves a secret from, in order: the upper-cased environment variable,
// a file named by <NAME>_FILE, and a Docker secret under SECRETS_DIR. In CI the
// TEST_-prefixed variable is consulted too.
func readSecret(env Environment, name string) string {
	key := strings.ToUpper(name)
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if env == CI {
		if v := strings.TrimSpace(os.Getenv("TEST_" + key)); v != "" {
			return v
		}
	}
	if path := os.Getenv(key + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = defaultSecretsDir
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
