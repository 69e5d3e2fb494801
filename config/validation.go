package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields []string
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		},
		Test: {
			RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		},
		CI: {
			RequiredFields: []string{"SERVER_PORT", "JWT_SECRET", "DB_USER", "DB_PASSWORD"},
		},
		Production: {
			RequiredFields: []string{"SERVER_PORT", "JWT_SECRET", "DB_USER", "DB_PASSWORD", "S3_BUCKET_NAME"},
		},
	}
)

func (c *Config) field(name string) string {
	switch name {
	case "SERVER_PORT":
		return c.ServerPort
	case "JWT_SECRET":
		return c.JWTSecret
	case "DB_USER":
		return c.DBUser
	case "DB_PASSWORD":
		return c.DBPassword
	case "S3_BUCKET_NAME":
		return c.S3BucketName
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	reqs := requirements[cfg.Env]

	var errs []string
	for _, name := range reqs.RequiredFields {
		// sqlite needs no credentials
		if cfg.DBDriver == DriverSQLite && strings.HasPrefix(name, "DB_") {
			continue
		}
		if cfg.field(name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required"}.Error())
		}
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "host and database name are required for postgres"}.Error())
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "is required for sqlite"}.Error())
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)}.Error())
	}

	if len(cfg.CORSOrigins) == 0 {
		errs = append(errs, ValidationError{Field: "CORS_ORIGINS", Message: "at least one origin is required"}.Error())
	}
	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_REQUESTS", Message: "must not be negative"}.Error())
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"}.Error())
	}
	if cfg.AutoAssignSchedule != "" {
		if _, err := cron.ParseStandard(cfg.AutoAssignSchedule); err != nil {
			errs = append(errs, ValidationError{Field: "AUTO_ASSIGN_SCHEDULE", Message: err.Error()}.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
