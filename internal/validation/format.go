package validation

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9.-]+\\.[a-zA-Z]{2,}$")

	phoneDigits    = regexp.MustCompile(`^\d+$`)
	phoneStripChar = regexp.MustCompile(`[^\d+]`)
)

// ValidateEmail reports whether email has an RFC-like shape with no stray
// dots around the local part or domain.
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	if !emailPattern.MatchString(email) {
		return false
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") ||
		strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return false
	}

	return !strings.Contains(local, "..") && !strings.Contains(domain, "..")
}

// ValidatePhone accepts E.164 style numbers (+ then 7-15 digits) and bare
// local numbers of 7-15 digits. Separators are ignored.
func ValidatePhone(phone string) bool {
	if len(phone) < 7 || len(phone) > 16 {
		return false
	}

	cleaned := phoneStripChar.ReplaceAllString(phone, "")
	digits := cleaned

	if rest, ok := strings.CutPrefix(cleaned, "+"); ok {
		// 1-4 digit country code plus 6-12 digit subscriber number
		digits = rest
	}

	return len(digits) >= 7 && len(digits) <= 15 && phoneDigits.MatchString(digits)
}
