package logger

import (
	"strings"
)

// MaskEmail keeps the first three characters of the local part and the domain.
// Example: john.doe@example.com -> joh***@example.com
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		if email == "" {
			return ""
		}
		return "***"
	}

	keep := min(len(local), 3)
	return local[:keep] + "***@" + domain
}

// MaskIP hides the host part of an address: 192.168.1.100 -> 192.168.*.*,
// IPv6 keeps the first four groups. Sentinel keys pass through.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if strings.Contains(ip, ":") {
		groups := strings.Split(ip, ":")
		if len(groups) <= 4 {
			return ip
		}
		for i := 4; i < len(groups); i++ {
			groups[i] = "*"
		}
		return strings.Join(groups, ":")
	}

	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return ip
	}
	return parts[0] + "." + parts[1] + ".*.*"
}
