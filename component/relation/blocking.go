package relation

import (
	"strconv"
	"strings"
)

// CountBlockingSessions adds blocking counts from rows of at least eight
// tokens: the SID is token 2 and the count token 8, or 1 when token 8 is
// not a number.
func CountBlockingSessions(lines []string, c *Counter) {
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) < 8 {
			continue
		}
		count := int64(1)
		if isDigits(parts[7]) {
			count = parseDigits(parts[7])
		}
		c.Add(parts[1], count)
	}
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseDigits parses a string checked by isDigits, saturating on overflow.
func parseDigits(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 1<<63 - 1
	}
	return v
}
