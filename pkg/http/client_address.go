package http

import (
	"net"
	"net/http"
	"strings"
)

const UnknownClient = "unknown"

// ClientAddress resolves the address a request is attributed to. With
// trustProxy set, the first X-Forwarded-For hop wins, then X-Real-IP.
// Otherwise, or when neither header is present, the host part of
// RemoteAddr is used. An unresolvable address is UnknownClient.
func ClientAddress(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	if r.RemoteAddr == "" {
		return UnknownClient
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	if host == "" {
		return UnknownClient
	}
	return host
}
