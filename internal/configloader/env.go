package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/fmtlift/pkg/config"
)

// envVarPrefix is the prefix for all fmtlift environment variables.
const envVarPrefix = "FMTLIFT_"

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
	"FORMAT":           {field: "format", typ: envTypeString},
	"JOBS":             {field: "jobs", typ: envTypeInt},
	"MAX_PASSES":       {field: "max_passes", typ: envTypeInt},
	"EXTENSIONS":       {field: "extensions", typ: envTypeSlice},
	"IGNORE":           {field: "ignore", typ: envTypeSlice},
	"CHECK":            {field: "check", typ: envTypeBool},
	"DRY_RUN":          {field: "dry_run", typ: envTypeBool},
	"NO_CACHE":         {field: "no_cache", typ: envTypeBool},
	"INCLUDE_VENDORED": {field: "include_vendored", typ: envTypeBool},
	"BACKUPS_ENABLED":  {field: "backups.enabled", typ: envTypeBool},
	"BACKUPS_MODE":     {field: "backups.mode", typ: envTypeString},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with FMTLIFT_ (e.g., FMTLIFT_FORMAT).
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
	case "format":
		cfg.Format = config.OutputFormat(value)
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
	case "check":
		cfg.Check = value
	case "dry_run":
		cfg.DryRun = value
	case "no_cache":
		cfg.NoCache = value
	case "include_vendored":
		cfg.IncludeVendored = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
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
	case "max_passes":
		cfg.MaxPasses = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		"FMTLIFT_FORMAT":           "Report format: text, json, or diff",
		"FMTLIFT_JOBS":             "Number of parallel workers (0 = one per CPU)",
		"FMTLIFT_MAX_PASSES":       "Rewrite passes before giving up on nested calls (0 = default)",
		"FMTLIFT_EXTENSIONS":       "Comma-separated list of file extensions to rewrite",
		"FMTLIFT_IGNORE":           "Comma-separated list of ignore patterns",
		"FMTLIFT_CHECK":            "Report files needing rewrites without writing: true or false",
		"FMTLIFT_DRY_RUN":          "Show diffs without writing: true or false",
		"FMTLIFT_NO_CACHE":         "Disable the result cache: true or false",
		"FMTLIFT_INCLUDE_VENDORED": "Rewrite vendored and generated files too: true or false",
		"FMTLIFT_BACKUPS_ENABLED":  "Keep backups when rewriting: true or false",
		"FMTLIFT_BACKUPS_MODE":     "Backup mode: sidecar or none",
	}
}
