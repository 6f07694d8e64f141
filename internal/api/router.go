/**
 * @description
 * This file sets up the HTTP router for the backend-service using the
 * go-chi/chi router. It defines the API routes, applies middleware for
 * logging, CORS, and authentication, and maps the routes to their
 * corresponding handler functions.
 *
 * @notes
 * - The webhook route is mounted outside the auth group and outside any
 *   body-parsing middleware: the handler itself reads the raw bytes so the
 *   signature is verified over the exact wire payload.
 */
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new Chi router and registers the backend-service routes.
func NewRouter(h *Handler, webhook *WebhookHandler, jwtSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/", h.handleHealth)

	// Provider-initiated routes: no bearer auth, the webhook authenticates
	// itself with its HMAC signature.
	r.Post("/paystack/webhook", webhook.ServeHTTP)
	r.Post("/verify-payment", h.handleVerifyPayment)
	r.Post("/ai/chat", h.handleChat)

	// Protected routes that require a Supabase access token.
	r.Group(func(r chi.Router) {
		r.Use(SupabaseAuthMiddleware(jwtSecret))

		r.Post("/api/user/sync", h.handleUserSync)
	})

	return r
}
