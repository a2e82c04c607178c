package app

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"finance-tracker-go/internal/config"
	"finance-tracker-go/internal/db"
	"finance-tracker-go/internal/domain/analytics"
	"finance-tracker-go/internal/domain/budget"
	"finance-tracker-go/internal/domain/export"
	"finance-tracker-go/internal/domain/importer"
	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/period"
	"finance-tracker-go/internal/events"
	"finance-tracker-go/internal/repository/inmemory"
	budgetrepo "finance-tracker-go/internal/repository/postgres/budget"
	ledgerrepo "finance-tracker-go/internal/repository/postgres/ledger"
	"finance-tracker-go/internal/transport/httpserver"
	"finance-tracker-go/internal/transport/httpserver/handler"
	"finance-tracker-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	closers    []func() error
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: dbConn}

	publisher, err := newPublisher(cfg.AMQP, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closer, ok := publisher.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	log.Info("app: initializing services")
	handlers, cleanup, err := NewHandlers(dbConn, cfg, publisher, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.closers = append(a.closers, cleanup)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)

	return a, nil
}

// NewHandlers wires stores and services over dbConn. cleanup releases the category cache.
func NewHandlers(dbConn *gorm.DB, cfg config.Config, publisher events.Publisher, log logger.Logger) (*handler.Handlers, func() error, error) {
	loc := cfg.Location()
	clock := period.ClockIn(loc)

	transactions := ledgerrepo.NewTransactions(dbConn)
	categories, err := inmemory.NewCachedCategories(ledgerrepo.NewCategories(dbConn), cfg.Cache.CategoryTTL)
	if err != nil {
		return nil, nil, err
	}
	budgets := budgetrepo.NewPostgres(dbConn)

	handlers := handler.New(
		ledger.NewTransactionService(transactions, categories, clock),
		ledger.NewCategoryService(categories, transactions, budgets),
		analytics.NewService(transactions, clock),
		budget.NewService(budgets, categories, transactions, clock),
		importer.NewParser(categories, transactions, publisher, log, loc),
		export.NewService(transactions, clock),
		handler.Options{Location: loc, MaxUploadBytes: cfg.Import.MaxUploadBytes},
		log,
	)

	cleanup := func() error {
		categories.Close()
		return nil
	}
	return handlers, cleanup, nil
}

func newPublisher(cfg config.AMQPConfig, log logger.Logger) (events.Publisher, error) {
	if cfg.URL == "" {
		log.Info("events: AMQP_URL not set, import events disabled")
		return events.Nop{}, nil
	}
	publisher, err := events.NewAMQPPublisher(events.AMQPConfig{
		URL:      cfg.URL,
		Exchange: cfg.Exchange,
		Queue:    cfg.Queue,
	}, log)
	if err != nil {
		return nil, err
	}
	log.Info("events: publishing import events", "exchange", cfg.Exchange, "queue", cfg.Queue)
	return publisher, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
