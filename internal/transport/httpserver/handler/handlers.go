package handler

import (
	"net/http"
	"time"

	"finance-tracker-go/internal/domain/analytics"
	"finance-tracker-go/internal/domain/budget"
	"finance-tracker-go/internal/domain/export"
	"finance-tracker-go/internal/domain/importer"
	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/pkg/logger"
)

type Handlers struct {
	Transactions *ledger.TransactionService
	Categories   *ledger.CategoryService
	Analytics    *analytics.Service
	Budgets      *budget.Service
	Importer     *importer.Parser
	Exporter     *export.Service

	loc            *time.Location
	maxUploadBytes int64
	log            logger.Logger
}

type Options struct {
	Location       *time.Location
	MaxUploadBytes int64
}

func New(
	transactions *ledger.TransactionService,
	categories *ledger.CategoryService,
	analyticsService *analytics.Service,
	budgets *budget.Service,
	parser *importer.Parser,
	exporter *export.Service,
	opts Options,
	log logger.Logger,
) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handlers{
		Transactions:   transactions,
		Categories:     categories,
		Analytics:      analyticsService,
		Budgets:        budgets,
		Importer:       parser,
		Exporter:       exporter,
		loc:            opts.Location,
		maxUploadBytes: opts.MaxUploadBytes,
		log:            log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
