package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"styleme/internal/http/handlers"
	"styleme/internal/middleware"
)

type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
	// JWTSecret enables bearer auth; anonymous requests are still accepted.
	JWTSecret string
	// StaticDir is served under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		if opts.JWTSecret != "" {
			r.Use(middleware.AuthJWT(opts.JWTSecret, true))
		}

		r.Get("/v1/catalog/{category}", app.ListCatalog)

		r.Route("/v1/sessions", func(r chi.Router) {
			r.Post("/", app.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetSession)
				r.Delete("/", app.DeleteSession)
				r.Post("/image", app.UploadImage)
				r.Post("/generate", app.Generate)
				r.Get("/progress", app.Progress)
				r.Post("/select", app.Select)
				r.Post("/modify", app.Modify)
				r.Post("/favorites/{styleID}", app.ToggleFavorite)
				r.Post("/confirm", app.Confirm)
				r.Post("/reset", app.Reset)
				r.Get("/styles.zip", app.StylesArchive)
			})
		})

		r.Route("/v1/handoff/{owner}", func(r chi.Router) {
			r.Get("/", app.GetHandoff)
			r.Delete("/", app.DeleteHandoff)
		})
	})

	if opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}

	return r
}
