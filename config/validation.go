package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirements lists settings that must be non-empty per environment
var requirements = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"JWT_SECRET"},
	Production:  {"JWT_SECRET", "LLM_API_TOKEN", "LLM_MODEL"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	values := map[string]string{
		"JWT_SECRET":    cfg.JWTSecret,
		"LLM_API_TOKEN": cfg.LLMToken,
		"LLM_MODEL":     cfg.LLMModel,
	}
	for _, key := range requirements[cfg.Environment] {
		if values[key] == "" {
			errors = append(errors, fmt.Sprintf("required setting %s is not set", key))
		}
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errors = append(errors, ValidationError{Field: "SERVER_PORT", Message: "must be a valid TCP port"}.Error())
	}

	switch cfg.DBDriver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errors = append(errors, ValidationError{Field: "SQLITE_PATH", Message: "must not be empty"}.Error())
		}
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
			errors = append(errors, ValidationError{Field: "DB_HOST", Message: "postgres needs DB_HOST, DB_NAME and DB_USER"}.Error())
		}
	default:
		errors = append(errors, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if u, err := url.Parse(cfg.LLMURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{Field: "LLM_URL", Message: "must be an absolute URL"}.Error())
	}
	if cfg.LLMTimeout <= 0 {
		errors = append(errors, ValidationError{Field: "LLM_TIMEOUT", Message: "must be positive"}.Error())
	}
	if cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0 {
		errors = append(errors, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "limit and window must be positive"}.Error())
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errors = append(errors, ValidationError{Field: "AWS_REGION", Message: "required when S3_DIAGNOSTICS_BUCKET is set"}.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
