package dashboard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[int]string{
		73210:   "$73,210",
		0:       "$0",
		999:     "$999",
		1000000: "$1,000,000",
		-5400:   "-$5,400",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(in), "FormatCurrency(%d)", in)
	}
}

func TestFormatCurrencyExtremes(t *testing.T) {
	assert.Equal(t, "-$1", FormatCurrency(-1))
	got := FormatCurrency(math.MinInt)
	assert.True(t, strings.HasPrefix(got, "-$"), got)
	assert.NotContains(t, got, "--")
	if strconv.IntSize == 64 {
		assert.Equal(t, "-$9,223,372,036,854,775,808", got)
		assert.Equal(t, "$9,223,372,036,854,775,807", FormatCurrency(math.MaxInt))
	}
}

func TestFormatPercents(t *testing.T) {
	assert.Equal(t, "87%", FormatPercent(87))
	assert.Equal(t, "3.4%", FormatDecimalPercent(3.4))
	assert.Equal(t, "7.0%", FormatDecimalPercent(7))
	assert.Equal(t, "12,345", FormatCount(12345))
}

func TestFormatSessionDuration(t *testing.T) {
	assert.Equal(t, "2:00", FormatSessionDuration(120))
	assert.Equal(t, "4:59", FormatSessionDuration(299))
	assert.Equal(t, "0:00", FormatSessionDuration(-3))

	pattern := regexp.MustCompile(`^[2-4]:[0-5][0-9]$`)
	rapid.Check(t, func(t *rapid.T) {
		seconds := rapid.IntRange(120, 299).Draw(t, "seconds")
		got := FormatSessionDuration(seconds)
		if !pattern.MatchString(got) {
			t.Fatalf("FormatSessionDuration(%d) = %q", seconds, got)
		}
		var m, s int
		if _, err := fmt.Sscanf(got, "%d:%d", &m, &s); err != nil || m*60+s != seconds {
			t.Fatalf("FormatSessionDuration(%d) = %q does not round-trip", seconds, got)
		}
	})
}
