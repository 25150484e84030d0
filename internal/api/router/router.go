package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/luxe-salon/internal/booking"
	"github.com/wolfman30/luxe-salon/internal/contact"
	"github.com/wolfman30/luxe-salon/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/luxe-salon/internal/http/middleware"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Booking            *booking.Handler
	Contact            *contact.Handler
	Format             *handlers.FormatHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	if cfg.Booking == nil {
		panic("router: booking handler required")
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger))
		}

		api.Get("/catalog/services", cfg.Booking.Services)
		api.Get("/catalog/staff", cfg.Booking.Staff)
		api.Get("/availability", cfg.Booking.Availability)
		api.Route("/bookings", cfg.Booking.Routes)

		if cfg.Format != nil {
			api.Route("/format", func(r chi.Router) {
				r.Post("/card", cfg.Format.CardNumber)
				r.Post("/expiry", cfg.Format.Expiry)
			})
		}
		if cfg.Contact != nil {
			api.Post("/contact", cfg.Contact.Submit)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
