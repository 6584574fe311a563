package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	valid := map[string]Format{
		"":         FormatTable,
		"table":    FormatTable,
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"yaml":     FormatYAML,
		"yml":      FormatYAML,
		"  table ": FormatTable,
	}
	for in, want := range valid {
		got, err := ParseFormat(in)
		require.NoError(t, err, "ParseFormat(%q)", in)
		assert.Equal(t, want, got, "ParseFormat(%q)", in)
	}

	for _, in := range []string{"xml", "csv", "tables"} {
		_, err := ParseFormat(in)
		require.Error(t, err, "ParseFormat(%q)", in)
		assert.Contains(t, err.Error(), "invalid output format")
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "table", FormatTable.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "yaml", FormatYAML.String())
}
