package smscache

import (
	"fmt"
	"regexp"
)

// DefaultPattern recognizes the bank transfer confirmation template. The
// first capture group is the amount token, the second the operation code.
// The deployed template is provider-specific, so the pattern is injectable
// through config.
const DefaultPattern = `(?is)amount\s+received:?\s*([\d.,]+).*?operation\s+code\s+is:?\s*([\d-]+)`

// Extractor pulls an (amount, code) pair out of free-text notification
// bodies. Implementations must be pure and safe for concurrent use.
type Extractor interface {
	// Extract returns the raw amount and code tokens, or ok=false when the
	// text does not match the expected template.
	Extract(text string) (amount, code string, ok bool)
}

// RegexExtractor is the regexp-backed Extractor used in production.
type RegexExtractor struct {
	re *regexp.Regexp
}

// NewRegexExtractor compiles pattern into an extractor. The pattern must
// contain at least two capture groups: amount first, operation code second.
func NewRegexExtractor(pattern string) (*RegexExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile sms pattern: %w", err)
	}
	if re.NumSubexp() < 2 {
		return nil, fmt.Errorf("sms pattern needs amount and code capture groups, has %d", re.NumSubexp())
	}
	return &RegexExtractor{re: re}, nil
}

// Extract implements Extractor.
func (e *RegexExtractor) Extract(text string) (string, string, bool) {
	m := e.re.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
