package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"15s", "15s"},
		{"5m30s", "5m 30s"},
		{"2h5m0s", "2h 5m 0s"},
		{"72h30m15s", "3d 0h 30m 15s"},
		{"0s", "0s"},
		{"not-a-duration", "not-a-duration"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUptime(tt.input), "input %q", tt.input)
	}
}

func TestFormatTimeKeepsUnparseableInput(t *testing.T) {
	assert.Equal(t, "yesterday", FormatTime("yesterday"))
	assert.Equal(t, "", FormatTime(""))
}
