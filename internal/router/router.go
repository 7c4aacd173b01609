// Package router assembles the HTTP routes for the inkpress server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/auth"
	"inkpress/internal/middleware"
)

// New builds the chi router: the GraphQL endpoint, the public upload
// directory, and a health check. The gql handler is passed in so tests can
// mount a stub; a nil limiter disables rate limiting.
func New(gql http.Handler, tokens *auth.TokenService, revoked *auth.Blacklist, limiter *middleware.RateLimiter, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Use(middleware.Authenticate(tokens, revoked))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Method(http.MethodPost, "/gql/v1", gql)

	// Uploaded files are public by design; no auth on this prefix.
	fs := http.FileServer(http.Dir(uploadDir))
	r.Handle("/public/*", http.StripPrefix("/public/", fs))

	return r
}
