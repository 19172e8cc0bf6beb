package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered tuple of unsigned integers, compared lexicographically.
type Version []uint

// ParseVersion parses a dotted version string such as "2.1.0".
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	v := make(Version, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", s, err)
		}
		v[i] = uint(n)
	}
	return v, nil
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, ".")
}

// Compare returns -1, 0 or 1 depending on whether v is less than, equal to,
// or greater than other. Shorter tuples compare as if padded with zeros.
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		var a, b uint
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Max returns the greater of v and other.
func (v Version) Max(other Version) Version {
	if v.Compare(other) >= 0 {
		return v
	}
	return other
}
