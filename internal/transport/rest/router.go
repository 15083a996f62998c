package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/ghost-payroll/internal/anomaly"
	"github.com/frahmantamala/ghost-payroll/internal/auth"
	"github.com/frahmantamala/ghost-payroll/internal/dashboard"
	"github.com/frahmantamala/ghost-payroll/internal/observability"
	"github.com/frahmantamala/ghost-payroll/internal/records"
	"github.com/frahmantamala/ghost-payroll/internal/transport/middleware"
	"github.com/frahmantamala/ghost-payroll/internal/transport/swagger"
	"github.com/frahmantamala/ghost-payroll/internal/upload"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. A nil handler leaves its
// routes unregistered.
type Handlers struct {
	Health    *HealthHandler
	Auth      *auth.Handler
	Records   *records.Handler
	Anomaly   *anomaly.Handler
	Upload    *upload.Handler
	Dashboard *dashboard.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	// MetricsPath is where prometheus scrapes; empty disables the endpoint.
	MetricsPath string
	// OpenAPIPath is the document served at /openapi.yml.
	OpenAPIPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, metrics *observability.Metrics, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(metrics.Middleware)

	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, metrics.Handler())
	}

	if opts.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			logger.Warn("no account token verifier configured; protected routes are not mounted")
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Records != nil {
				pr.Get("/employees", h.Records.GetEmployees)
			}

			if h.Anomaly != nil {
				pr.Route("/anomalies", func(ar chi.Router) {
					ar.Get("/", h.Anomaly.GetAnomalies)
					ar.Get("/report", h.Anomaly.DownloadReport)
					ar.Post("/scan", h.Anomaly.RunScan)
					ar.Patch("/{id}/status", h.Anomaly.UpdateAnomalyStatus)
				})
			}

			if h.Upload != nil {
				pr.Post("/upload/{type}", h.Upload.UploadFile)
				pr.Get("/file-uploads", h.Upload.GetFileUploads)
			}

			if h.Dashboard != nil {
				pr.Route("/dashboard", func(dr chi.Router) {
					dr.Get("/stats", h.Dashboard.GetStats)
					dr.Get("/risk-distribution", h.Dashboard.GetRiskDistribution)
				})
			}
		})
	})
}
