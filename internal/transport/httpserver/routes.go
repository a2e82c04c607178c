package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/transport/httpserver/handler"
	authmw "finance-tracker-go/internal/transport/httpserver/middleware"
	"finance-tracker-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewJWTAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/dashboard/summary", handlers.DashboardSummary)
			r.Get("/dashboard/category-chart", handlers.CategoryChart)
			r.Get("/dashboard/daily-chart", handlers.DailyChart)
			r.Get("/dashboard/category-summary", handlers.CategorySummary)
			r.Get("/dashboard/balance", handlers.Balance)

			r.Get("/reports/monthly", handlers.MonthlyReport)
			r.Get("/reports/compare", handlers.CompareReports)
			r.Get("/reports/totals", handlers.VerifyTotals)
			r.Get("/reports/export/{format}", handlers.ExportTransactions)

			r.Get("/transactions", handlers.ListTransactions)
			r.Post("/transactions", handlers.CreateTransaction)
			r.Post("/transactions/import", handlers.ImportTransactions)
			r.Get("/transactions/import/template", handlers.ImportTemplate)
			r.Get("/transactions/{id}", handlers.GetTransaction)
			r.Put("/transactions/{id}", handlers.UpdateTransaction)
			r.Delete("/transactions/{id}", handlers.DeleteTransaction)

			r.Get("/categories", handlers.ListCategories)
			r.Post("/categories", handlers.CreateCategory)
			r.Get("/categories/{id}", handlers.GetCategory)
			r.Put("/categories/{id}", handlers.UpdateCategory)
			r.Delete("/categories/{id}", handlers.DeleteCategory)

			r.Get("/budgets", handlers.ListBudgets)
			r.Get("/budgets/status", handlers.BudgetStatus)
			r.Post("/budgets", handlers.CreateBudget)
			r.Put("/budgets/{id}", handlers.UpdateBudget)
			r.Delete("/budgets/{id}", handlers.DeleteBudget)
		})
	})

	return r
}
