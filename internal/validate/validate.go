// Package validate provides pure input predicates for the registration and
// top-up flow. All functions are total: any string input yields a verdict.
package validate

import (
	"strconv"
	"strings"
)

// Bounds enforced on user-supplied registration and top-up inputs.
const (
	MinAge = 10
	MaxAge = 100

	MinAmount  = 10000
	MaxAmount  = 1000000
	AmountStep = 5000
)

// IsFullName reports whether s looks like a full legal name:
// at least three whitespace-separated parts.
func IsFullName(s string) bool {
	return len(strings.Fields(s)) >= 3
}

// IsAge reports whether s is an all-digit age within [MinAge, MaxAge].
func IsAge(s string) bool {
	n, ok := parseDigits(s)
	return ok && n >= MinAge && n <= MaxAge
}

// IsAmount reports whether s is an all-digit amount within
// [MinAmount, MaxAmount] and an exact multiple of AmountStep.
func IsAmount(s string) bool {
	n, ok := parseDigits(s)
	return ok && n >= MinAmount && n <= MaxAmount && n%AmountStep == 0
}

// ParseAmount returns the amount encoded in s, or false when IsAmount
// would reject it.
func ParseAmount(s string) (int64, bool) {
	if !IsAmount(s) {
		return 0, false
	}
	n, _ := parseDigits(s)
	return n, true
}

// Digits strips every non-digit rune from s. Used to normalize amounts and
// operation codes before byte-for-byte comparison.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseDigits(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || Digits(s) != s {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
