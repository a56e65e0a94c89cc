package service

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveActor(t *testing.T) {
	longIP := strings.Repeat("1", 100)
	longFP := strings.Repeat("f", 300)

	tests := []struct {
		name        string
		headers     map[string]string
		remoteAddr  string
		fingerprint string
		wantIP      string
		wantFP      string
	}{
		{
			name:       "remote address only",
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "10.0.0.7",
		},
		{
			name:       "real ip wins",
			headers:    map[string]string{HeaderRealIP: "203.0.113.9", HeaderForwardedFor: "198.51.100.1"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "203.0.113.9",
		},
		{
			name:       "first forwarded entry",
			headers:    map[string]string{HeaderForwardedFor: " 198.51.100.1 , 10.0.0.2"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "198.51.100.1",
		},
		{
			name:       "blank forwarded entry falls through",
			headers:    map[string]string{HeaderForwardedFor: " , 10.0.0.2"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "10.0.0.7",
		},
		{
			name:       "ipv6 remote address",
			remoteAddr: "[2001:db8::1]:443",
			wantIP:     "2001:db8::1",
		},
		{
			name:       "remote address without port",
			remoteAddr: "10.0.0.7",
			wantIP:     "10.0.0.7",
		},
		{
			name:       "malformed real ip falls through",
			headers:    map[string]string{HeaderRealIP: longIP, HeaderForwardedFor: "198.51.100.1"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "198.51.100.1",
		},
		{
			name:       "malformed forwarded entry falls back to transport",
			headers:    map[string]string{HeaderForwardedFor: "unknown, 198.51.100.1"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "10.0.0.7",
		},
		{
			name:       "ipv6 header is canonicalized",
			headers:    map[string]string{HeaderRealIP: "2001:DB8:0:0::1"},
			remoteAddr: "10.0.0.7:51234",
			wantIP:     "2001:db8::1",
		},
		{
			name:       "unparsable transport address is clamped",
			remoteAddr: longIP,
			wantIP:     longIP[:maxIPLength],
		},
		{
			name:        "long fingerprint is clamped",
			remoteAddr:  "10.0.0.7:1",
			fingerprint: longFP,
			wantIP:      "10.0.0.7",
			wantFP:      longFP[:maxFingerprintLength],
		},
		{
			name:        "fingerprint is trimmed",
			remoteAddr:  "10.0.0.7:1",
			fingerprint: "  abc123 ",
			wantIP:      "10.0.0.7",
			wantFP:      "abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.headers {
				header.Set(k, v)
			}

			actor := ResolveActor(header, tt.remoteAddr, tt.fingerprint)
			assert.Equal(t, tt.wantIP, actor.IP)
			assert.Equal(t, tt.wantFP, actor.Fingerprint)
			assert.Equal(t, tt.wantFP != "", actor.HasFingerprint())
		})
	}
}
