package config

import (
	"fmt"
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

// ValidationErrors aggregates every problem found in one pass
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	lines := make([]string, len(v))
	for i, e := range v {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

const minProductionSecretLength = 32

var supportedDrivers = map[string]bool{
	"postgres": true,
	"mysql":    true,
	"sqlite":   true,
}

// ValidateConfig checks the configuration against the rules for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "is required"})
	}

	if !supportedDrivers[cfg.DBDriver] {
		errs = append(errs, ValidationError{
			Field:   "DB_DRIVER",
			Message: fmt.Sprintf("unsupported driver %q (want postgres, mysql or sqlite)", cfg.DBDriver),
		})
	}

	switch cfg.DBDriver {
	case "postgres", "mysql":
		if cfg.DatabaseURL == "" {
			if cfg.DBHost == "" {
				errs = append(errs, ValidationError{Field: "DB_HOST", Message: "is required when DATABASE_URL is unset"})
			}
			if cfg.DBUser == "" {
				errs = append(errs, ValidationError{Field: "DB_USER", Message: "is required when DATABASE_URL is unset"})
			}
			if cfg.DBName == "" {
				errs = append(errs, ValidationError{Field: "DB_NAME", Message: "is required when DATABASE_URL is unset"})
			}
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{Field: "SQLITE_PATH", Message: "is required for the sqlite driver"})
		}
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"})
	} else if !cfg.Environment.relaxed() && len(cfg.JWTSecret) < minProductionSecretLength {
		errs = append(errs, ValidationError{
			Field:   "JWT_SECRET",
			Message: fmt.Sprintf("must be at least %d characters in %s", minProductionSecretLength, cfg.Environment),
		})
	}

	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}

	if cfg.Environment == Production && cfg.DBDriver == "sqlite" {
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
