package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gohtmlrewrite/pkg/config"
)

// envVarPrefix is the prefix for all gohtmlrewrite environment variables.
const envVarPrefix = "GOHTMLREWRITE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FILTERS":         {field: "filters", typ: envTypeSlice},
	"COALESCE":        {field: "coalesce", typ: envTypeBool},
	"LOG_LEVEL":       {field: "log_level", typ: envTypeString},
	"OUTPUT":          {field: "output", typ: envTypeString},
	"JOBS":            {field: "jobs", typ: envTypeInt},
	"IGNORE":          {field: "ignore", typ: envTypeSlice},
	"EXTENSIONS":      {field: "extensions", typ: envTypeSlice},
	"BACKUPS_ENABLED": {field: "backups.enabled", typ: envTypeBool},
	"BACKUPS_MODE":    {field: "backups.mode", typ: envTypeString},
	"FORCE":           {field: "force", typ: envTypeBool},
	"NO_BACKUPS":      {field: "no_backups", typ: envTypeBool},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOHTMLREWRITE_ (e.g., GOHTMLREWRITE_OUTPUT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		parts := parseSliceValue(value)
		return setSliceField(cfg, mapping.field, parts)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "log_level":
		cfg.LogLevel = value
	case "output":
		cfg.Output = config.OutputMode(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "coalesce":
		cfg.Coalesce = &value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "force":
		cfg.Force = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "filters":
		cfg.Filters = value
	case "ignore":
		cfg.Ignore = value
	case "extensions":
		cfg.Extensions = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"GOHTMLREWRITE_FILTERS":         "Comma-separated filter chain (e.g., writer)",
		"GOHTMLREWRITE_COALESCE":        "Merge adjacent text nodes: true or false",
		"GOHTMLREWRITE_LOG_LEVEL":       "Log level: debug, info, warn, error",
		"GOHTMLREWRITE_OUTPUT":          "Output mode: stdout or in-place",
		"GOHTMLREWRITE_JOBS":            "Number of parallel workers (0 = auto)",
		"GOHTMLREWRITE_IGNORE":          "Comma-separated list of ignore patterns",
		"GOHTMLREWRITE_EXTENSIONS":      "Comma-separated list of HTML file extensions",
		"GOHTMLREWRITE_BACKUPS_ENABLED": "Enable backups for in-place rewrites: true or false",
		"GOHTMLREWRITE_BACKUPS_MODE":    "Backup mode: sidecar or none",
		"GOHTMLREWRITE_FORCE":           "Rewrite files that do not look like HTML: true or false",
		"GOHTMLREWRITE_NO_BACKUPS":      "Disable backups: true or false",
	}
}
