package handlers

import (
	"net/http"
	"strings"
)

// requestBaseURL returns scheme://host for the origin the request arrived on.
// X-Forwarded-Proto from a fronting proxy wins over the connection's TLS state.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		proto = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
		if proto == "http" || proto == "https" {
			scheme = proto
		}
	}
	return scheme + "://" + r.Host
}
