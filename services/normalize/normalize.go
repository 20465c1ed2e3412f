package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// DurationMinutes converts an upstream ISO-8601 duration (e.g. "PT2H15M") to
// whole minutes. Malformed input yields 0.
func DurationMinutes(iso string) int {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(iso))
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	hours, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	mins, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	secs, _ := strconv.Atoi(zeroIfEmpty(m[4]))
	return days*24*60 + hours*60 + mins + secs/60
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// ParseAmount coerces an upstream price field to a non-negative number.
// Upstream price formatting is unreliable: currency codes, thousands
// separators and stray whitespace all appear in the wild. Anything that still
// fails to parse becomes 0 rather than aborting a search.
func ParseAmount(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	// Dot-as-thousands formats ("1.234.50") keep only the last separator.
	if strings.Count(cleaned, ".") > 1 {
		last := strings.LastIndex(cleaned, ".")
		cleaned = strings.ReplaceAll(cleaned[:last], ".", "") + cleaned[last:]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// DedupeCabins collapses repeated cabin/category codes, preserving first-seen
// order. Segments commonly repeat the same cabin.
func DedupeCabins(cabins []string) []string {
	seen := make(map[string]struct{}, len(cabins))
	var out []string
	for _, c := range cabins {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToUpper(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Refundable maps an upstream refund statement to a tri-state flag. It stays
// nil unless the upstream explicitly states a policy; unknown must never
// default to true or false.
func Refundable(stated bool, value bool) *bool {
	if !stated {
		return nil
	}
	v := value
	return &v
}
