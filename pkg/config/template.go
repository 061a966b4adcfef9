package config

import (
	"bytes"
	"fmt"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every recognized call and spells out all settings.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format string
}

// CallInfo contains formatting-call metadata for template generation.
type CallInfo struct {
	Name        string
	Family      string
	Writer      bool
	Description string
}

// CallInfoProvider is a function that returns call information. It keeps
// this package free of a dependency on the engine.
type CallInfoProvider func() []CallInfo

// DefaultCallInfoProvider is set by the CLI during init.
//
//nolint:gochecknoglobals // Intentional extension point for call info.
var DefaultCallInfoProvider CallInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "toml":
	default:
		return nil, fmt.Errorf("unknown template format %q (want yaml or toml)", opts.Format)
	}

	if opts.Full {
		return generateFullTemplate(opts), nil
	}
	return generateMinimalTemplate(opts), nil
}

func generateMinimalTemplate(opts TemplateOptions) []byte {
	if opts.Format == "toml" {
		return []byte(minimalTOML)
	}
	return []byte(minimalYAML)
}

const minimalYAML = `# fmtlift configuration
# See: https://github.com/yaklabco/fmtlift

# File extensions to rewrite
extensions:
  - ".rs"

# Paths to skip (glob patterns, ** crosses directory separators)
# ignore:
#   - "generated/**"
#   - "benches/**"

# Extra formatting calls to recognize, merged over the built-ins
# calls:
#   - name: "log!"
#   - name: "emit!"
#     writer: true

# Number of parallel workers (0 = one per CPU)
# jobs: 0

# Report format: text, json, or diff
# format: text

# Keep a .fmtlift.bak copy of every rewritten file
# backups:
#   enabled: true
`

const minimalTOML = `# fmtlift configuration
# See: https://github.com/yaklabco/fmtlift

# File extensions to rewrite
extensions = [".rs"]

# Paths to skip (glob patterns, ** crosses directory separators)
# ignore = ["generated/**", "benches/**"]

# Extra formatting calls to recognize, merged over the built-ins
# [[calls]]
# name = "log!"
#
# [[calls]]
# name = "emit!"
# writer = true

# Number of parallel workers (0 = one per CPU)
# jobs = 0

# Report format: text, json, or diff
# format = "text"

# Keep a .fmtlift.bak copy of every rewritten file
# [backups]
# enabled = true
`

func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	if opts.Format == "toml" {
		buf.WriteString(fullHeaderTOML)
	} else {
		buf.WriteString(fullHeaderYAML)
	}

	// Document the built-in calls. Custom calls extend, never replace, this set.
	buf.WriteString("\n# Built-in formatting calls:\n#\n")
	for _, call := range getCallInfos() {
		writerNote := ""
		if call.Writer {
			writerNote = ", leading writer argument"
		}
		buf.WriteString(fmt.Sprintf("# %s (%s%s)\n", call.Name, call.Family, writerNote))
		buf.WriteString(fmt.Sprintf("#   %s\n", wrapComment(call.Description, commentWrapWidth)))
	}

	if opts.Format == "toml" {
		buf.WriteString(fullCallsTOML)
	} else {
		buf.WriteString(fullCallsYAML)
	}

	return buf.Bytes()
}

const fullHeaderYAML = `# fmtlift configuration - Full Template
# See: https://github.com/yaklabco/fmtlift
#
# Every setting is listed with its default. Uncomment and modify as needed.

# File extensions to rewrite
extensions:
  - ".rs"

# Paths to skip (glob patterns, ** crosses directory separators)
ignore: []

# Number of parallel workers (0 = one per CPU)
jobs: 0

# Report format: text, json, or diff
format: text

# Rewrite passes before giving up on nested calls (0 = engine default)
max_passes: 0

# Rewrite vendored and generated files too
include_vendored: false

# Disable the result cache
no_cache: false

# Keep a .fmtlift.bak copy of every rewritten file
backups:
  enabled: false
  mode: sidecar

# Defaults for the vocab subcommand
vocab:
  title: ""
  backlink: ""
`

const fullHeaderTOML = `# fmtlift configuration - Full Template
# See: https://github.com/yaklabco/fmtlift
#
# Every setting is listed with its default. Uncomment and modify as needed.

# File extensions to rewrite
extensions = [".rs"]

# Paths to skip (glob patterns, ** crosses directory separators)
ignore = []

# Number of parallel workers (0 = one per CPU)
jobs = 0

# Report format: text, json, or diff
format = "text"

# Rewrite passes before giving up on nested calls (0 = engine default)
max_passes = 0

# Rewrite vendored and generated files too
include_vendored = false

# Disable the result cache
no_cache = false

# Keep a .fmtlift.bak copy of every rewritten file
[backups]
enabled = false
mode = "sidecar"

# Defaults for the vocab subcommand
[vocab]
title = ""
backlink = ""
`

const fullCallsYAML = `
# Extra formatting calls to recognize
# calls:
#   - name: "log!"
#   - name: "emit!"
#     writer: true
`

const fullCallsTOML = `
# Extra formatting calls to recognize
# [[calls]]
# name = "log!"
#
# [[calls]]
# name = "emit!"
# writer = true
`

// getCallInfos returns information about the recognized calls.
func getCallInfos() []CallInfo {
	if DefaultCallInfoProvider != nil {
		return DefaultCallInfoProvider()
	}

	// Fallback to the static built-in set.
	return []CallInfo{
		{
			Name: "format!", Family: "format",
			Description: "Builds a String from the template and arguments",
		},
		{
			Name: "print!", Family: "print-line",
			Description: "Prints to standard output",
		},
		{
			Name: "println!", Family: "print-line",
			Description: "Prints to standard output with a trailing newline",
		},
		{
			Name: "eprint!", Family: "error-print-line",
			Description: "Prints to standard error",
		},
		{
			Name: "eprintln!", Family: "error-print-line",
			Description: "Prints to standard error with a trailing newline",
		},
		{
			Name: "write!", Family: "write-to", Writer: true,
			Description: "Writes to the leading writer expression",
		},
		{
			Name: "writeln!", Family: "write-to", Writer: true,
			Description: "Writes to the leading writer expression with a trailing newline",
		},
	}
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n#   ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# fmtlift configuration
# See: https://github.com/yaklabco/fmtlift`
}
