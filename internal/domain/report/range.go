package report

import (
	"strconv"
	"strings"
)

// IsValueAbnormal evaluates a measured value against a normal-range
// expression. Supported forms:
//
//	"lo-hi"  abnormal iff value < lo or value > hi
//	"<N"     abnormal iff value >= N
//	">N"     abnormal iff value <= N
//
// A non-numeric value or an unparseable range is indeterminate and never
// flagged. The flag is advisory and display-only.
func IsValueAbnormal(value, normalRange string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}

	rng := strings.TrimSpace(normalRange)
	switch {
	case strings.HasPrefix(rng, "<"):
		n, err := strconv.ParseFloat(strings.TrimSpace(rng[1:]), 64)
		if err != nil {
			return false
		}
		return v >= n

	case strings.HasPrefix(rng, ">"):
		n, err := strconv.ParseFloat(strings.TrimSpace(rng[1:]), 64)
		if err != nil {
			return false
		}
		return v <= n

	default:
		lo, hi, ok := splitRange(rng)
		if !ok {
			return false
		}
		return v < lo || v > hi
	}
}

// splitRange parses "lo-hi". The separator search starts at index 1 so a
// leading minus sign on lo survives.
func splitRange(rng string) (lo, hi float64, ok bool) {
	if rng == "" {
		return 0, 0, false
	}
	sep := strings.Index(rng[1:], "-")
	if sep < 0 {
		return 0, 0, false
	}
	sep++

	lo, err := strconv.ParseFloat(strings.TrimSpace(rng[:sep]), 64)
	if err != nil {
		return 0, 0, false
	}
	hi, err = strconv.ParseFloat(strings.TrimSpace(rng[sep+1:]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}
