package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sheetbooks/sheetbooks-backend/api/controllers"
	"github.com/sheetbooks/sheetbooks-backend/api/middleware"
	"github.com/sheetbooks/sheetbooks-backend/internal/ledger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/config"
	"github.com/sheetbooks/sheetbooks-backend/pkg/logger"
	"github.com/sheetbooks/sheetbooks-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	invoiceService ledger.Service,
	quotationService ledger.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(logg))

		r.Route("/invoices", recordRoutes(invoiceService, logg))
		r.Route("/quotations", recordRoutes(quotationService, logg))
	})

	return r
}

func recordRoutes(svc ledger.Service, logg *logger.Logger) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", controllers.RecordSave(svc, logg))
		r.Post("/preview", controllers.RecordPreview(svc, logg))
		r.Route("/{recordId}", func(r chi.Router) {
			r.Get("/", controllers.RecordGet(svc, logg))
			r.Put("/", controllers.RecordUpdate(svc, logg))
			r.Delete("/", controllers.RecordDelete(svc, logg))
			r.Put("/status", controllers.RecordSetStatus(svc, logg))
		})
	}
}
