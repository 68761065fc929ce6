package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/insuite-dev/insuite/internal/audit"
	"github.com/insuite-dev/insuite/internal/backup"
	"github.com/insuite-dev/insuite/internal/coa"
	"github.com/insuite-dev/insuite/internal/company"
	"github.com/insuite-dev/insuite/internal/inventory"
	"github.com/insuite-dev/insuite/internal/observability"
	"github.com/insuite-dev/insuite/internal/reports"
	"github.com/insuite-dev/insuite/internal/users"
	"github.com/insuite-dev/insuite/internal/vouchers"
	"github.com/insuite-dev/insuite/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CompanyHandler   *company.Handler
	CoAHandler       *coa.Handler
	VoucherHandler   *vouchers.Handler
	InventoryHandler *inventory.Handler
	ReportHandler    *reports.Handler
	BackupHandler    *backup.Handler
	UsersHandler     *users.Handler
	AuditHandler     *audit.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with InSuite defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/companies", params.CompanyHandler.MountRoutes)
		r.Route("/accounts", params.CoAHandler.MountRoutes)
		r.Route("/vouchers", params.VoucherHandler.MountRoutes)
		r.Route("/inventory", params.InventoryHandler.MountRoutes)
		r.Route("/reports", params.ReportHandler.MountRoutes)
		r.Route("/backups", params.BackupHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		if params.AuditHandler != nil {
			r.Route("/audit", params.AuditHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
