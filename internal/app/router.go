package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kestrel-leasing/kestrel-leasing/internal/applications"
	"github.com/kestrel-leasing/kestrel-leasing/internal/contracts"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/assets"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/clients"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/insurers"
	"github.com/kestrel-leasing/kestrel-leasing/internal/masterdata/suppliers"
	"github.com/kestrel-leasing/kestrel-leasing/internal/observability"
	"github.com/kestrel-leasing/kestrel-leasing/internal/reports"
	"github.com/kestrel-leasing/kestrel-leasing/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Config  *Config
	Metrics *observability.Metrics

	ClientsHandler      *clients.Handler
	SuppliersHandler    *suppliers.Handler
	InsurersHandler     *insurers.Handler
	AssetsHandler       *assets.Handler
	ApplicationsHandler *applications.Handler
	ContractsHandler    *contracts.Handler
	ReportsHandler      *reports.Handler
	JobHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(params.Config) {
		r.Use(mw)
	}
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.ClientsHandler != nil {
		r.Route("/masterdata/clients", params.ClientsHandler.MountRoutes)
	}
	if params.SuppliersHandler != nil {
		r.Route("/masterdata/suppliers", params.SuppliersHandler.MountRoutes)
	}
	if params.InsurersHandler != nil {
		r.Route("/masterdata/insurers", params.InsurersHandler.MountRoutes)
	}
	if params.AssetsHandler != nil {
		r.Route("/masterdata/assets", params.AssetsHandler.MountRoutes)
	}
	if params.ApplicationsHandler != nil {
		r.Route("/applications", params.ApplicationsHandler.MountRoutes)
	}
	if params.ContractsHandler != nil {
		r.Route("/contracts", params.ContractsHandler.MountRoutes)
	}
	if params.ReportsHandler != nil {
		r.Route("/reports", params.ReportsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
