// Package formatting parses loosely formatted values: byte sizes from
// configuration and JSON objects embedded in model replies.
package formatting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var bytesPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([KMGT]?B?)$`)

var byteShift = map[byte]uint{'K': 10, 'M': 20, 'G': 30, 'T': 40}

// ParseBytes reads sizes such as "25MB", "512 kb", or "1048576".
// Units are base-1024 and case-insensitive; the trailing B is optional.
func ParseBytes(s string) (int64, error) {
	m := bytesPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	if unit := m[2]; unit != "" && unit != "B" {
		value *= float64(int64(1) << byteShift[unit[0]])
	}
	return int64(value), nil
}
