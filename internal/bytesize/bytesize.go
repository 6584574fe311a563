package bytesize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ByteSize is a size in bytes parsed from human-readable strings such as
// "1Gi", "500Mi", "100MB" or a bare number.
//
// Units ending in i (or iB) are binary, stepping by 1024; the rest are
// decimal, stepping by 1000. A trailing B on its own means bytes.
type ByteSize uint64

// Decimal (SI) and binary (IEC) size constants.
const (
	B ByteSize = 1

	KB ByteSize = 1000
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB
	PB ByteSize = 1000 * TB

	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
	PiB ByteSize = 1024 * TiB
)

// byteSizePattern matches a number followed by an optional unit suffix.
var byteSizePattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*([a-z]*)\s*$`)

// unitMultipliers maps lowercase unit suffixes to multipliers. Every unit
// registers both its bare spelling and the one with a trailing b.
var unitMultipliers = map[string]ByteSize{"": B, "b": B}

func init() {
	for prefix, mult := range map[string]ByteSize{
		"k": KB, "m": MB, "g": GB, "t": TB, "p": PB,
		"ki": KiB, "mi": MiB, "gi": GiB, "ti": TiB, "pi": PiB,
	} {
		unitMultipliers[prefix] = mult
		unitMultipliers[prefix+"b"] = mult
	}
}

// ParseByteSize parses a human-readable size like "1Gi", "500MB" or a
// plain count of bytes.
func ParseByteSize(s string) (ByteSize, error) {
	m := byteSizePattern.FindStringSubmatch(s)
	if m == nil {
		if strings.TrimSpace(s) == "" {
			return 0, fmt.Errorf("empty byte size string")
		}
		return 0, fmt.Errorf("invalid byte size format: %q", s)
	}

	mult, ok := unitMultipliers[strings.ToLower(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
	}

	// Integers stay in uint64 so sizes beyond 2^53 bytes parse exactly.
	if !strings.Contains(m[1], ".") {
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number in byte size: %q", m[1])
		}
		return ByteSize(n) * mult, nil
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in byte size: %q", m[1])
	}
	return ByteSize(f * float64(mult)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so ByteSize fields
// decode from strings wherever text decoding applies.
func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// formatUnits is the display ladder used by Format. The scale between steps is
// 1024 even though the labels are the conventional decimal ones; this matches
// the sizes users see everywhere in the UI and CLI.
var formatUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Format renders a byte count for display: two decimals, a space, and a unit,
// stepping by 1024 through B, KB, MB, GB, TB and capping at PB.
//
//	Format(0)    == "0.00 B"
//	Format(1536) == "1.50 KB"
func Format(n uint64) string {
	size := float64(n)
	for _, unit := range formatUnits {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", size)
}

// Format renders the size for display; see the package-level Format.
func (b ByteSize) Format() string {
	return Format(uint64(b))
}

// stringUnits is the ladder String descends when picking a unit.
var stringUnits = []struct {
	step ByteSize
	name string
}{
	{PiB, "PiB"},
	{TiB, "TiB"},
	{GiB, "GiB"},
	{MiB, "MiB"},
	{KiB, "KiB"},
}

// String renders the size with binary units and no space, e.g. "1.50KiB".
// Sizes below 1KiB print as an exact byte count.
func (b ByteSize) String() string {
	for _, u := range stringUnits {
		if b >= u.step {
			return fmt.Sprintf("%.2f%s", float64(b)/float64(u.step), u.name)
		}
	}
	return fmt.Sprintf("%dB", uint64(b))
}
