package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appinvoicing "github.com/22Jason22/ferremateriales/internal/application/invoicing"
	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	apppartner "github.com/22Jason22/ferremateriales/internal/application/partner"
	apppurchasing "github.com/22Jason22/ferremateriales/internal/application/purchasing"
	appsales "github.com/22Jason22/ferremateriales/internal/application/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/cache"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/config"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/event"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/logger"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/scheduler"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/handler"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/middleware"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ferremateriales",
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowQuery))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// PostgreSQL is migrated by cmd/migrate
	if applied, err := db.EnsureSchema(); err != nil {
		log.Fatal("Failed to create schema", zap.Error(err))
	} else if applied {
		log.Info("Schema created from models", zap.String("driver", cfg.Database.Driver))
	}

	sqlDB, err := db.SQL()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := persistence.NewRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus. Handlers that change state are wrapped so a redelivered
	// event is applied once.
	idempotencyStore := cache.NewIdempotencyStore(ctx, cfg.Redis, log)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingHandler(log))
	eventBus.Subscribe(event.NewIdempotentHandler(
		apppartner.NewInvoiceOverdueHandler(txScope, log),
		idempotencyStore,
		shared.DefaultIdempotencyConfig(),
		log,
	))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	ledgerService := appledger.NewLedgerService(repos, txScope, log)
	productService := appinventory.NewProductService(repos, txScope, log)
	stockService := appinventory.NewStockService(repos, txScope, log)
	customerService := apppartner.NewCustomerService(repos, txScope, log)
	supplierService := apppartner.NewSupplierService(repos, log)
	quoteService := appsales.NewQuoteService(repos, txScope, log)
	orderService := appsales.NewOrderService(repos, txScope, log)
	invoiceService := appinvoicing.NewInvoiceService(repos, txScope, log)
	overdueService := appinvoicing.NewOverdueService(repos, txScope, log)
	purchaseOrderService := apppurchasing.NewPurchaseOrderService(repos, txScope, log)

	for _, svc := range []interface {
		SetEventPublisher(shared.EventPublisher)
	}{
		ledgerService, productService, stockService, quoteService, orderService,
		invoiceService, overdueService, purchaseOrderService,
	} {
		svc.SetEventPublisher(eventBus)
	}

	// Background overdue sweep
	var (
		jobScheduler *scheduler.Scheduler
		trigger      *scheduler.IntervalTrigger
	)
	if cfg.Scheduler.Enabled {
		schedulerCfg := scheduler.DefaultConfig()
		schedulerCfg.JobTimeout = cfg.Scheduler.JobTimeout
		jobScheduler, err = scheduler.NewScheduler(schedulerCfg, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		jobScheduler.Register(scheduler.JobOverdueSweep,
			scheduler.NewOverdueSweepExecutor(overdueService, nil, log))
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		trigger = scheduler.NewIntervalTrigger(jobScheduler, scheduler.JobOverdueSweep,
			cfg.Scheduler.OverdueInterval, true, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start overdue trigger", zap.Error(err))
		}
		log.Info("Overdue sweep scheduled", zap.Duration("interval", cfg.Scheduler.OverdueInterval))
	}

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine(log)
	r := router.NewRouter(engine)

	var idempotent gin.HandlerFunc
	if cfg.Idempotency.Enabled {
		idempotent = middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL)
	}

	router.RegisterAPI(r, router.Handlers{
		Accounts:       handler.NewAccountHandler(ledgerService),
		Products:       handler.NewProductHandler(productService, stockService),
		Customers:      handler.NewCustomerHandler(customerService),
		Suppliers:      handler.NewSupplierHandler(supplierService),
		Quotes:         handler.NewQuoteHandler(quoteService),
		Orders:         handler.NewOrderHandler(orderService),
		Invoices:       handler.NewInvoiceHandler(invoiceService, overdueService),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchaseOrderService),
		Health:         handler.NewHealthHandler(sqlDB),
	}, idempotent)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	exitCode := 0
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		log.Error("Server failed", zap.Error(err))
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping overdue trigger", zap.Error(err))
		}
	}
	if jobScheduler != nil {
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	if exitCode != 0 {
		_ = logger.Sync(log)
		os.Exit(exitCode)
	}
	log.Info("Server exited gracefully")
}
