package service

import (
	"net"
	"net/http"
	"strings"

	"github.com/quickpoll/backend/src/domain"
)

const (
	HeaderRealIP       = "X-Real-IP"
	HeaderForwardedFor = "X-Forwarded-For"
)

// Column widths of vote_records.ip_address and vote_records.fingerprint.
const (
	maxIPLength          = 64
	maxFingerprintLength = 128
)

// ResolveActor derives the anonymous identity of a request. The proxy
// supplied X-Real-IP wins, then the first X-Forwarded-For entry, then the
// transport address. Header values that do not parse as an IP are ignored.
// It never fails.
func ResolveActor(header http.Header, remoteAddr string, fingerprint string) domain.ActorIdentity {
	return domain.ActorIdentity{
		IP:          clientIP(header, remoteAddr),
		Fingerprint: clamp(strings.TrimSpace(fingerprint), maxFingerprintLength),
	}
}

func clientIP(header http.Header, remoteAddr string) string {
	if ip, ok := parseIP(header.Get(HeaderRealIP)); ok {
		return ip
	}

	if forwarded := header.Get(HeaderForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip, ok := parseIP(first); ok {
			return ip
		}
	}

	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	if ip, ok := parseIP(host); ok {
		return ip
	}
	return clamp(host, maxIPLength)
}

// parseIP returns the canonical form of s when it is an IP address.
func parseIP(s string) (string, bool) {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return "", false
	}
	return ip.String(), true
}

func clamp(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
