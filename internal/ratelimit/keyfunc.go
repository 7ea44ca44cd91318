package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

type KeyFunc func(r *http.Request) string

// DefaultKeyFunc identifies the client by the first X-Forwarded-For entry,
// then X-Real-IP, then the remote host, then "unknown".
func DefaultKeyFunc(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// первый адрес в цепочке - исходный клиент
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
