package server

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// corsOptions: любой метод API, наружу отдаем Content-Length, preflight кэшируется на 10 минут.
func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Custom-Header", "Upgrade-Insecure-Requests"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         600,
	}
}

var secureHeaderValues = [][2]string{
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Origin-Agent-Cluster", "?1"},
	{"Referrer-Policy", "no-referrer"},
	{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-DNS-Prefetch-Control", "off"},
	{"X-Download-Options", "noopen"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-Permitted-Cross-Domain-Policies", "none"},
	{"X-XSS-Protection", "0"},
}

// secureHeaders sets the response hardening headers on every reply of the group.
func secureHeaders() []func(http.Handler) http.Handler {
	mws := make([]func(http.Handler) http.Handler, 0, len(secureHeaderValues))
	for _, h := range secureHeaderValues {
		mws = append(mws, middleware.SetHeader(h[0], h[1]))
	}
	return mws
}
