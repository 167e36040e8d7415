package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/middleware"
)

// NewRouter wires all routes. countryLookup may be nil; donor countries then
// come from proxy headers only.
func NewRouter(app *handlers.App, cfg *infra.Config, countryLookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	authed := middleware.RequireAuth(cfg.JWTSecret)
	limited := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(limited)
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
	})

	r.With(authed).Get("/v1/me", app.Me)

	r.Route("/v1/campaigns", func(r chi.Router) {
		r.Get("/", app.CampaignsList)
		r.Get("/{id}", app.CampaignsGet)
		r.With(authed).Post("/", app.CampaignsCreate)
		r.With(authed).Put("/{id}", app.CampaignsUpdate)
		r.With(authed).Delete("/{id}", app.CampaignsDelete)
		r.With(authed).Get("/{id}/stats", app.CampaignsStats)
	})

	r.Route("/v1/donations", func(r chi.Router) {
		r.Use(authed)
		r.With(limited, middleware.Country(countryLookup)).Post("/", app.DonationsCreate)
		r.Get("/", app.DonationsList)
	})

	return r
}
