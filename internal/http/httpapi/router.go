package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"catalogpix/internal/http/handlers"
	"catalogpix/internal/infra"
	"catalogpix/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.UploadRateLimit, time.Minute))
			r.Post("/upload", app.Upload)
		})

		r.Route("/assets/{asset_id}", func(r chi.Router) {
			r.Get("/", app.GetAsset)
			r.Get("/job", app.GetJobStatus)
			r.Get("/renditions/{preset}", app.GetRendition)
			r.Get("/archive", app.Archive)
			r.Post("/compare", app.Compare)
		})

		r.Get("/metrics", app.GetMetrics)
		r.Get("/poison", app.ListPoison)
		r.Post("/purge", app.Purge)
	})

	return r
}
