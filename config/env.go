package config

import (
	"os"
	"strings"
)

// Environment is the deployment stage the process runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment resolves the environment from CI and ENV
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// ParseEnvironment maps a free-form name onto a known Environment,
// falling back to Development.
func ParseEnvironment(name string) Environment {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "production", "prod":
		return Production
	case "test", "testing":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// relaxed reports whether missing secrets may fall back to development defaults
func (e Environment) relaxed() bool {
	return e == Development || e == Test
}
