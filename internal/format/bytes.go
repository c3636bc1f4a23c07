package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes renders n with a binary unit: 512 B, 1.5 KiB, 3.00 GiB.
func FormatBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, byteUnits[i])
}

// FormatSignedBytes renders a heap delta with an explicit sign: +20 B, -1.50 MiB, 0 B.
func FormatSignedBytes(d int64) string {
	switch {
	case d > 0:
		return "+" + FormatBytes(uint64(d))
	case d < 0:
		if d == math.MinInt64 {
			return "-" + FormatBytes(uint64(math.MaxInt64)+1)
		}
		return "-" + FormatBytes(uint64(-d))
	}
	return "0 B"
}

// FormatNumberString inserts thousands separators into a decimal string.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var builder strings.Builder
	builder.Grow(len(prefix) + n + (n-1)/3)
	builder.WriteString(prefix)
	first := n % 3
	if first == 0 {
		first = 3
	}
	builder.WriteString(s[:first])
	for i := first; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}

// FormatUint is FormatNumberString for an unsigned value.
func FormatUint(n uint64) string {
	return FormatNumberString(strconv.FormatUint(n, 10))
}
