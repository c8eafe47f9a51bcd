package middleware

import (
	"net/http"
	"strings"
)

var securityHeaders = map[string]string{
	"X-Frame-Options":         "DENY",
	"X-Content-Type-Options":  "nosniff",
	"Content-Security-Policy": "default-src 'self'; script-src 'none'; object-src 'none'",
	"X-XSS-Protection":        "1; mode=block",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Permissions-Policy":      "geolocation=(), microphone=(), camera=()",
}

// SecurityHeaders stamps the hardening headers on every response, error
// responses included.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			next.ServeHTTP(w, r)
		})
	}
}

type CORSOptions struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string
	// Paths overrides the policy for exact request paths.
	Paths map[string]CORSOptions
}

type corsHeaders struct {
	origin  string
	headers string
	methods string
}

func (o CORSOptions) compile() corsHeaders {
	origin := o.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	return corsHeaders{
		origin:  origin,
		headers: strings.Join(o.AllowHeaders, ", "),
		methods: strings.Join(o.AllowMethods, ", "),
	}
}

// CORS adds the cross-origin headers to every response and answers
// preflight OPTIONS requests with an empty 200.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	fallback := opts.compile()
	byPath := make(map[string]corsHeaders, len(opts.Paths))
	for path, o := range opts.Paths {
		byPath[path] = o.compile()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := byPath[r.URL.Path]
			if !ok {
				c = fallback
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", c.origin)
			if c.headers != "" {
				h.Set("Access-Control-Allow-Headers", c.headers)
			}
			if c.methods != "" {
				h.Set("Access-Control-Allow-Methods", c.methods)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
