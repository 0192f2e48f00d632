package lineutil

import (
	"net/http"
	"strings"
)

// SecureBaseURL returns the public origin of r with the scheme forced to
// https. LINE only loads icon images over https, and behind a TLS-terminating
// proxy the request itself arrives over plain http.
//
// X-Forwarded-Host is honored only when trustForwarded is set; any client can
// send that header, so it must come from a proxy that overwrites it.
func SecureBaseURL(r *http.Request, trustForwarded bool) string {
	host := r.Host
	if trustForwarded {
		if fwd := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-Host"), ",")[0]); fwd != "" {
			host = fwd
		}
	}
	return "https://" + host
}

// StaticURL joins a base URL with an asset under /static.
func StaticURL(baseURL, asset string) string {
	return strings.TrimRight(baseURL, "/") + "/static/" + strings.TrimLeft(asset, "/")
}
