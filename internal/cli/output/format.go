// Package output renders CLI command results as tables, JSON or YAML.
package output

import (
	"fmt"
	"strings"
)

// Format selects how command output is rendered.
type Format string

const (
	// FormatTable renders results as an aligned text table.
	FormatTable Format = "table"
	// FormatJSON renders results as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders results as YAML.
	FormatYAML Format = "yaml"
)

// formatNames maps accepted --output flag spellings to their Format.
var formatNames = map[string]Format{
	"":      FormatTable,
	"table": FormatTable,
	"json":  FormatJSON,
	"yaml":  FormatYAML,
	"yml":   FormatYAML,
}

// ParseFormat maps an --output flag value to a Format, ignoring case and
// surrounding whitespace. The empty string means table.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
	return f, nil
}

func (f Format) String() string {
	return string(f)
}
