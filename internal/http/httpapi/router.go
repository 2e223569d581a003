package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"giveflow/internal/http/handlers"
	"giveflow/internal/infra"
	"giveflow/internal/middleware"
)

// NewRouter wires the HTTP surface: health, the assistant endpoint, and
// the public campaign/donation reads.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Country(lookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/token", app.AuthToken)

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
				middleware.OptionalAuth(cfg.JWTSecret),
			)
			r.Post("/assist", app.Assist)
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", app.CampaignsList)
			r.Get("/{id}", app.CampaignsGet)
		})
		r.Get("/donations/recent", app.DonationsRecent)
	})

	return r
}
