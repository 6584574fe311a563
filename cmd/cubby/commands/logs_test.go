package commands

import (
	"testing"
	"time"
)

func TestTailLines(t *testing.T) {
	lines := []string{"one", "two", "three", "four"}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"fewer lines than requested", 10, lines},
		{"exact count", 4, lines},
		{"last two", 2, []string{"three", "four"}},
		{"zero", 0, nil},
		{"negative treated as zero", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tailLines(lines, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("tailLines(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tailLines(%d)[%d] = %q, want %q", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLineTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{
			name: "rfc3339 prefix with zulu",
			line: "2024-01-15T10:30:45Z INFO server started",
			want: time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC),
		},
		{
			name: "rfc3339 prefix with offset",
			line: "2024-01-15T10:30:45+02:00 INFO server started",
			want: time.Date(2024, 1, 15, 10, 30, 45, 0, time.FixedZone("", 2*60*60)),
		},
		{
			name: "json time field",
			line: `{"time":"2024-01-15T10:30:45.123Z","level":"INFO","msg":"started"}`,
			want: time.Date(2024, 1, 15, 10, 30, 45, 123000000, time.UTC),
		},
		{
			name: "no timestamp",
			line: "plain text without any timestamp",
			want: time.Time{},
		},
		{
			name: "short line",
			line: "short",
			want: time.Time{},
		},
		{
			name: "json time field never closed",
			line: `{"time":"2024-01-15T10:30:45.123Z`,
			want: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineTimestamp(tt.line)
			if !got.Equal(tt.want) {
				t.Errorf("lineTimestamp(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
