package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleStatus struct {
	Status string `json:"status" yaml:"status"`
	Files  int    `json:"files" yaml:"files"`
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := PrintJSON(&buf, sampleStatus{Status: "ok", Files: 12})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"files": 12`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	err := PrintYAML(&buf, sampleStatus{Status: "ok", Files: 12})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "status: ok")
	assert.Contains(t, out, "files: 12")
}

func TestPrintYAMLList(t *testing.T) {
	items := []sampleStatus{
		{Status: "ok", Files: 1},
		{Status: "degraded", Files: 2},
	}

	var buf bytes.Buffer
	err := PrintYAML(&buf, items)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "- status: ok")
	assert.Contains(t, out, "- status: degraded")
}
