// Package security sets response hardening headers and resolves the
// client address behind trusted proxies.
package security

import (
	"fmt"
	"net/http"
)

// HeadersConfig holds security headers configuration
type HeadersConfig struct {
	CSP string

	HSTSMaxAge            int
	HSTSIncludeSubdomains bool

	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	CrossOriginResource string
	// CacheControl is applied to every response; the ledger is private data.
	CacheControl string
}

// DefaultHeadersConfig suits a JSON API that serves no documents.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                   "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		XFrameOptions:         "DENY",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "no-referrer",
		CrossOriginResource:   "same-origin",
		CacheControl:          "no-store",
	}
}

// Headers returns middleware applying cfg to every response.
func Headers(cfg HeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if cfg.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
	}
	set := func(h http.Header, key, value string) {
		if value != "" {
			h.Set(key, value)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			set(h, "Content-Security-Policy", cfg.CSP)
			set(h, "X-Frame-Options", cfg.XFrameOptions)
			set(h, "X-Content-Type-Options", cfg.XContentTypeOptions)
			set(h, "Referrer-Policy", cfg.ReferrerPolicy)
			set(h, "Cross-Origin-Resource-Policy", cfg.CrossOriginResource)
			set(h, "Cache-Control", cfg.CacheControl)
			// HSTS only means something over TLS
			if r.TLS != nil {
				set(h, "Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}
