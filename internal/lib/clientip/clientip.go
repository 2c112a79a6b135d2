// Package clientip extracts the caller address used as a rate-limit key.
//
// Forwarding headers are trusted as-is. The service is expected to sit
// behind a proxy that overwrites them.
package clientip

import (
	"net"
	"net/http"
	"strings"
)

const Unknown = "unknown"

func FromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if r.RemoteAddr == "" {
		return Unknown
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	if host == "" {
		return Unknown
	}

	return host
}
