package dynamic

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	decimalPattern  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	infinityPattern = regexp.MustCompile(`^[+-]?Infinity$`)
	prefixedPattern = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[bB][01]+|[oO][0-7]+)$`)
)

// parseNumber converts a token value to a number the way loosely typed
// sources do: surrounding space is ignored, blank is zero, 0x/0b/0o integer
// literals and Infinity are accepted, and anything else is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	switch {
	case s == "":
		return 0
	case infinityPattern.MatchString(s):
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	case prefixedPattern.MatchString(s):
		return parsePrefixed(s)
	case decimalPattern.MatchString(s):
		// Out of range values come back as +-Inf, which is what we want
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
	return math.NaN()
}

func parsePrefixed(s string) float64 {
	base := map[byte]int{'x': 16, 'b': 2, 'o': 8}[s[1]|0x20]

	n, ok := new(big.Int).SetString(s[2:], base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// formatNumber renders f the way it reads back in card text: NaN and
// Infinity spelled out, no negative zero, and exponent form outside
// [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
