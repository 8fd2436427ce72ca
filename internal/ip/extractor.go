package ip

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Sentinel keys used when no usable address can be derived. Every client in
// one sentinel shares a single rate limit bucket.
const (
	KeyUnknown  = "unknown"   // production, no forwarding header at all
	KeyInvalid  = "invalid"   // production, forwarding header present but malformed
	KeyLoopback = "127.0.0.1" // development fallback
)

type Extractor struct {
	production   bool
	trustedCIDRs []*net.IPNet
}

func NewExtractor(production bool, trustedProxies []string) (*Extractor, error) {
	var cidrs []*net.IPNet
	for _, proxy := range trustedProxies {
		_, cidr, err := net.ParseCIDR(proxy)
		if err != nil {

			// Handle single IPs
			ip := net.ParseIP(proxy)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy address: %s", proxy)
			}

			// Handle IPv4 vs IPv6 masks
			mask := net.CIDRMask(32, 32)
			if ip.To4() == nil {
				mask = net.CIDRMask(128, 128)
			}

			cidrs = append(cidrs, &net.IPNet{IP: ip, Mask: mask})
			continue
		}
		cidrs = append(cidrs, cidr)
	}
	return &Extractor{production: production, trustedCIDRs: cidrs}, nil
}

// Extract returns the rate limit key for r. With trusted proxies configured,
// forwarding headers only count when the direct peer is one of them.
func (e *Extractor) Extract(r *http.Request) string {
	if len(e.trustedCIDRs) == 0 {
		return e.DeriveKey(r.Header)
	}

	// Get direct peer IP
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if !e.IsTrusted(remoteIP) {
		if IsValidIP(remoteIP) {
			return remoteIP
		}
		return e.fallback(true)
	}

	return e.DeriveKey(r.Header)
}

// DeriveKey is a pure function of the forwarding headers and the deployment
// mode. It never fails; unusable input maps to a sentinel key.
func (e *Extractor) DeriveKey(h http.Header) string {
	realIP := strings.TrimSpace(h.Get("X-Real-IP"))
	if IsValidIP(realIP) {
		return realIP
	}

	forwarded := h.Get("X-Forwarded-For")
	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if IsValidIP(first) {
		return first
	}

	malformed := realIP != "" || strings.TrimSpace(forwarded) != ""
	return e.fallback(malformed)
}

func (e *Extractor) fallback(malformed bool) string {
	if !e.production {
		return KeyLoopback
	}
	if malformed {
		return KeyInvalid
	}
	return KeyUnknown
}

func (e *Extractor) IsTrusted(ipStr string) bool {

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	for _, cidr := range e.trustedCIDRs {
		if cidr.Contains(ip) {
			return true
		}
	}

	return false
}

// IsValidIP is a spoofing speed bump, not RFC validation: strict dotted-quad
// IPv4, any hex-and-colon string as IPv6, and the loopback literals.
func IsValidIP(s string) bool {
	switch s {
	case "":
		return false
	case "127.0.0.1", "::1", "localhost":
		return true
	}

	if strings.Contains(s, ":") {
		return isLooseIPv6(s)
	}
	return isDottedQuad(s)
}

func isDottedQuad(s string) bool {
	octets := 0
	for part := range strings.SplitSeq(s, ".") {
		octets++
		if octets > 4 || len(part) == 0 || len(part) > 3 {
			return false
		}
		n := 0
		for i := 0; i < len(part); i++ {
			c := part[i]
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return octets == 4
}

func isLooseIPv6(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
