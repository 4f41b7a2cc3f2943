package clientip

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.7:54321"
	r.Header.Set("X-Forwarded-For", "1.1.1.1")
	assert.Equal(t, "203.0.113.7", RealClientIP(r))

	r.RemoteAddr = "203.0.113.8"
	assert.Equal(t, "203.0.113.8", RealClientIP(r))
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		realIP    string
		remote    string
		want      string
	}{
		{"forwarded first hop", "10.0.0.1, 10.0.0.2", "", "192.0.2.1:80", "10.0.0.1"},
		{"real ip header", "", "10.0.0.9", "192.0.2.1:80", "10.0.0.9"},
		{"socket address", "", "", "192.0.2.1:80", "192.0.2.1"},
		{"ipv6 socket", "", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"garbage forwarded falls back", strings.Repeat("x", 200), "", "192.0.2.1:80", "192.0.2.1"},
		{"garbage real ip falls back", "", "not-an-ip", "192.0.2.1:80", "192.0.2.1"},
		{"mapped ipv4", "::ffff:10.0.0.5", "", "192.0.2.1:80", "10.0.0.5"},
		{"no valid address", "junk", "", "pipe", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				r.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, FromRequest(r))
		})
	}
}
