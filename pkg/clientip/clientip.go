package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// RealClientIP returns the client IP from r.RemoteAddr only (no proxy
// headers). Use for rate limiting when traffic reaches the app directly.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// FromRequest returns the originating client address, preferring the first
// hop of X-Forwarded-For, then X-Real-IP, then the socket address. Header
// values that do not parse as an IP are skipped. It is recorded on entries
// and reset requests for auditing, not trusted for access control. The
// result is empty when no candidate is a valid IP.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ip, ok := normalize(strings.Split(forwarded, ",")[0]); ok {
			return ip
		}
	}
	if ip, ok := normalize(r.Header.Get("X-Real-IP")); ok {
		return ip
	}
	ip, _ := normalize(RealClientIP(r))
	return ip
}

// normalize parses s as an IP address and returns its canonical form
// without any zone.
func normalize(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return addr.WithZone("").Unmap().String(), true
}
