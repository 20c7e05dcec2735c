package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/delivery/http/handler"
	"github.com/user/deals-scraper/internal/delivery/http/middleware"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)

		r.Get("/lists/{name}", h.HandleGetList)
		r.Put("/lists/{name}", h.HandleSaveList)

		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandleSaveSettings)

		r.Post("/chrome/check", h.HandleCheckChrome)

		r.Post("/scrape", h.HandleStartScrape)
		r.Get("/scrape/progress", h.HandleGetProgress)
		r.Post("/scrape/cancel", h.HandleCancelScrape)
		r.Get("/scrape/report", h.HandleDownloadReport)

		r.Get("/runs", h.HandleListRuns)
	})

	return r
}
