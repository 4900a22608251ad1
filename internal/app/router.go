package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/shopstack/shopstack/internal/auth"
	"github.com/shopstack/shopstack/internal/catalog"
	"github.com/shopstack/shopstack/internal/reports"
	"github.com/shopstack/shopstack/internal/stores"
	"github.com/shopstack/shopstack/internal/transactions"
	"github.com/shopstack/shopstack/internal/users"
	"github.com/shopstack/shopstack/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthMiddleware auth.Middleware

	AuthHandler         *auth.Handler
	UsersHandler        *users.Handler
	StoresHandler       *stores.Handler
	CatalogHandler      *catalog.Handler
	TransactionsHandler *transactions.Handler
	ReportsHandler      *reports.Handler
	JobsHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with ShopStack defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires a resolved actor.
	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireActor)

		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/stores", params.StoresHandler.MountRoutes)
		r.Route("/categories", params.CatalogHandler.MountCategoryRoutes)
		r.Route("/products", params.CatalogHandler.MountProductRoutes)
		r.Route("/transactions", params.TransactionsHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
