// Package validation sanitizes and checks untrusted contact form input.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Dangerous elements are dropped with their content before encoding,
	// otherwise the encoded brackets would hide them from these patterns.
	dangerousBlocks = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?is)<object\b[^>]*>.*?</object>`),
		regexp.MustCompile(`(?is)<embed\b[^>]*>.*?</embed>`),
	}

	dangerousProtocols = regexp.MustCompile(`(?i)javascript:|vbscript:|data:|file:`)
	eventHandlers      = regexp.MustCompile(`(?i)on\w+\s*=`)

	suspiciousInput = regexp.MustCompile(
		`(?i)<script|javascript:|on\w+\s*=|eval\s*\(|expression\s*\(|vbscript:|data:text/html|<iframe|<object|<embed`,
	)

	htmlEncoder = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
		"/", "&#x2F;",
	)
)

// SanitizeString trims input, caps it at maxLength runes and neutralizes
// markup, dangerous protocols and inline event handlers.
func SanitizeString(input string, maxLength int) string {
	s := truncate(strings.TrimSpace(input), maxLength)
	s = stripControl(s)

	for _, re := range dangerousBlocks {
		s = re.ReplaceAllString(s, "")
	}

	s = htmlEncoder.Replace(s)
	s = dangerousProtocols.ReplaceAllString(s, "")
	s = eventHandlers.ReplaceAllString(s, "")

	return s
}

// DetectSuspiciousInput reports whether s carries a known injection signature.
func DetectSuspiciousInput(s string) bool {
	return suspiciousInput.MatchString(s)
}

func truncate(s string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(s) <= maxLength {
		return s
	}

	n := 0
	for i := range s {
		if n == maxLength {
			return s[:i]
		}
		n++
	}
	return s
}

// stripControl removes C0 controls except tab, LF and CR, plus DEL.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20 || r == 0x7F:
			return -1
		}
		return r
	}, s)
}
