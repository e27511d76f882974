package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseHMS(t *testing.T) {
	valid := []struct {
		input string
		want  time.Duration
	}{
		{"00:30:00", 30 * time.Minute},
		{"01:00:00", time.Hour},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second},
		{"00:00:00", 0},
		{"10:59:59", 10*time.Hour + 59*time.Minute + 59*time.Second},
		{" 00:45:30 ", 45*time.Minute + 30*time.Second},
	}
	for _, tc := range valid {
		got, err := ParseHMS(tc.input)
		assert.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}

	malformed := []string{
		"",
		"abc",
		"30:00",
		"1800",
		"1:2:3:4",
		"::",
		"01:xx:00",
		"-1:00:00",
		"00:-5:00",
		"1.5:00:00",
	}
	for _, input := range malformed {
		got, err := ParseHMS(input)
		assert.Error(t, err, "input %q", input)
		assert.Equal(t, time.Duration(0), got, "input %q", input)
	}
}
