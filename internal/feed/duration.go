package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseHMS parses an "H:MM:SS" episode duration string into a duration with
// second granularity. Feeds put all sorts of garbage in the duration field,
// so callers are expected to treat an error as a warning and fall back to
// zero rather than failing the ingestion.
func ParseHMS(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration %q is not in H:MM:SS form", s)
	}

	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("duration %q has a non-numeric field: %w", s, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("duration %q has a negative field", s)
		}
		fields[i] = n
	}

	total := fields[0]*3600 + fields[1]*60 + fields[2]
	return time.Duration(total) * time.Second, nil
}
