package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/travel-reservations/internal/auth"
	"github.com/robertarktes/travel-reservations/internal/observability"
	"github.com/robertarktes/travel-reservations/internal/rateLimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, tokens *auth.TokenIssuer, rl *rateLimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	r.Get("/v1/healthz", h.Healthz)
	r.Get("/v1/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Post("/v1/auth/register", h.Register)
	r.Post("/v1/auth/login", h.Login)

	r.Get("/v1/packages", h.ListPackages)
	r.Get("/v1/packages/{id}", h.GetPackage)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(tokens))
		r.Use(RateLimitMiddleware(rl))

		r.Get("/v1/users/me", h.Me)
		r.Patch("/v1/users/me", h.UpdateProfile)

		r.Post("/v1/bookings", h.CreateBooking)
		r.Post("/v1/bookings/{id}/cancel", h.CancelBooking)
		r.Get("/v1/bookings", h.ListMyBookings)

		r.Post("/v1/wishlist", h.AddToWishlist)
		r.Delete("/v1/wishlist/{packageId}", h.RemoveFromWishlist)
		r.Get("/v1/wishlist", h.ListWishlist)

		r.Post("/v1/packages", h.CreatePackage)
		r.Patch("/v1/packages/{id}", h.UpdatePackage)
		r.Delete("/v1/packages/{id}", h.DeletePackage)

		r.Get("/v1/admin/bookings", h.ListAllBookings)
		r.Get("/v1/admin/analytics", h.AdminAnalytics)
		r.Get("/v1/admin/users", h.ListUsers)
		r.Delete("/v1/admin/users/{id}", h.RemoveUser)
	})

	return r
}
