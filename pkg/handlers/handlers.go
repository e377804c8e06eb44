// Package handlers assembles the HTTP API.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/allowance-ledger/pkg/handlers/accounts"
	"github.com/chris/allowance-ledger/pkg/handlers/catalog"
	"github.com/chris/allowance-ledger/pkg/handlers/ledger"
	"github.com/chris/allowance-ledger/pkg/handlers/reconcile"
	"github.com/chris/allowance-ledger/pkg/handlers/respond"
	"github.com/chris/allowance-ledger/pkg/handlers/todos"
	"github.com/chris/allowance-ledger/pkg/middleware"
	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the dependencies of the router. Cron and Hub are optional.
type Deps struct {
	Service        *rewards.Service
	Catalog        storage.CatalogStore
	Cron           reconcile.CronRunner
	Hub            http.Handler
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter mounts every route on a chi router.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	accountsHandler := accounts.NewAccountsHandler(deps.Service)
	todosHandler := todos.NewTodosHandler(deps.Service)
	ledgerHandler := ledger.NewLedgerHandler(deps.Service)
	reconcileHandler := reconcile.NewReconcileHandler(deps.Service, deps.Cron)
	catalogHandler := catalog.NewCatalogHandler(deps.Catalog)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewStructuredLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.UserIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/accounts", accountsHandler.CreateAccount)

	// Maintenance passes span every user.
	r.Post("/todos/auto-approve", reconcileHandler.AutoApprove)
	r.Post("/todos/reset", reconcileHandler.Reset)
	r.Get("/todos/reset", reconcileHandler.PreviewReset)
	if deps.Cron != nil {
		r.Get("/cron/todo-reset", reconcileHandler.RunCron)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		if deps.Hub != nil {
			r.Handle("/ws", deps.Hub)
		}

		r.Get("/settings", accountsHandler.GetSettings)
		r.Put("/settings", accountsHandler.UpdateSettings)

		r.Get("/todos", todosHandler.ListTodos)
		r.Post("/todos", todosHandler.CreateTodo)
		r.Post("/todos/apply-penalty", reconcileHandler.ApplyPenalty)
		r.Get("/todos/{todoId}", todosHandler.GetTodo)
		r.Put("/todos/{todoId}", todosHandler.UpdateTodo)
		r.Delete("/todos/{todoId}", todosHandler.DeleteTodo)

		r.Route("/pending", func(r chi.Router) {
			r.Get("/", ledgerHandler.ListPending)
			r.Post("/", ledgerHandler.CreatePending)
			r.Post("/approve-all", ledgerHandler.ApproveAll)
			r.Post("/{pendingId}/approve", ledgerHandler.ApprovePending)
			r.Delete("/{pendingId}", ledgerHandler.DenyPending)
		})

		r.Get("/balance", ledgerHandler.GetBalance)
		r.Put("/balance", ledgerHandler.SetBalance)
		r.Get("/logs", ledgerHandler.ListBalanceLogs)

		r.Route("/behaviors", func(r chi.Router) {
			r.Get("/", catalogHandler.ListBehaviors)
			r.Post("/", catalogHandler.CreateBehavior)
			r.Get("/{behaviorId}", catalogHandler.GetBehavior)
			r.Put("/{behaviorId}", catalogHandler.UpdateBehavior)
			r.Delete("/{behaviorId}", catalogHandler.DeleteBehavior)
			r.Get("/{behaviorId}/activities", catalogHandler.ListActivities)
			r.Post("/{behaviorId}/activities", catalogHandler.CreateActivity)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/{activityId}", catalogHandler.GetActivity)
			r.Put("/{activityId}", catalogHandler.UpdateActivity)
			r.Delete("/{activityId}", catalogHandler.DeleteActivity)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", catalogHandler.ListEvents)
			r.Post("/", catalogHandler.CreateEvent)
			r.Get("/{eventId}", catalogHandler.GetEvent)
			r.Put("/{eventId}", catalogHandler.UpdateEvent)
			r.Delete("/{eventId}", catalogHandler.DeleteEvent)
		})
	})

	return r
}
