// Package timeutil formats server-reported timestamps and durations for
// CLI output.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// localTimeLayout is the layout for timestamps shown to the user.
const localTimeLayout = "Mon Jan 2 15:04:05 2006"

// FormatUptime renders a Go duration string like "72h30m15s" as
// "3d 0h 30m 15s", dropping leading units that are zero. Unparseable
// input is returned as-is.
func FormatUptime(uptime string) string {
	d, err := time.ParseDuration(uptime)
	if err != nil {
		return uptime
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	switch {
	case days > 0:
		parts = append(parts, fmt.Sprintf("%dd", days), fmt.Sprintf("%dh", hours), fmt.Sprintf("%dm", minutes))
	case hours > 0:
		parts = append(parts, fmt.Sprintf("%dh", hours), fmt.Sprintf("%dm", minutes))
	case minutes > 0:
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}

// FormatTime converts an RFC3339 timestamp to local time in a fixed
// layout. Unparseable input is returned as-is.
func FormatTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format(localTimeLayout)
}
