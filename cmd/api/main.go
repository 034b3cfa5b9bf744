package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/calculator"
	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-api/internal/infrastructure/database"
	"github.com/sangkips/salon-api/internal/infrastructure/events"
	"github.com/sangkips/salon-api/internal/infrastructure/memory"
	"github.com/sangkips/salon-api/internal/infrastructure/metrics"
	"github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/handler"
	"github.com/sangkips/salon-api/internal/presentation/http/routes"
	"github.com/sangkips/salon-api/pkg/logger"
	"github.com/sangkips/salon-api/pkg/printer"
	"github.com/sangkips/salon-api/pkg/utils"
	"go.uber.org/zap"
)

// repositories groups the data access implementations of one storage driver
type repositories struct {
	sales       domainRepo.SaleRepository
	staff       domainRepo.StaffRepository
	customers   domainRepo.CustomerRepository
	profiles    domainRepo.CommissionProfileRepository
	idempotency domainRepo.IdempotencyRepository
	checks      []handler.HealthCheck
}

func openRepositories(cfg *config.Config, log *zap.Logger) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			sales:       store.Sales(),
			staff:       store.Staff(),
			customers:   store.Customers(),
			profiles:    store.Profiles(),
			idempotency: store.Idempotency(),
		}, nil
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, log); err != nil {
		return nil, err
	}

	return &repositories{
		sales:       repository.NewSaleRepository(db),
		staff:       repository.NewStaffRepository(db),
		customers:   repository.NewCustomerRepository(db),
		profiles:    repository.NewCommissionProfileRepository(db),
		idempotency: repository.NewIdempotencyRepository(db),
		checks: []handler.HealthCheck{{
			Name:  "database",
			Check: func(context.Context) error { return database.Ping(db) },
		}},
	}, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// no logger exists before configuration is read
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if !cfg.EnvFileLoaded {
		log.Info(".env file not found, using environment variables")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", zap.Error(err))
	}

	// Commission report cache
	var reportCache cache.ReportCache = cache.NewMemoryReportCache()
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisCache.Close()
		reportCache = redisCache
		repos.checks = append(repos.checks, handler.HealthCheck{Name: "redis", Check: redisCache.Ping})
	}

	// Sale events
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		}, log)
	}
	defer publisher.Close()

	m := metrics.New()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Calculators
	taxCalc := calculator.NewTaxCalculator(calculator.TaxModel{SplitRatio: cfg.Tax.SplitRatio})
	commissionCalc := calculator.NewCommissionCalculator(calculator.CommissionOptions{
		StackItemBased: cfg.Commission.StackItemBased,
	})

	composer := service.NewReceiptComposer(entity.ReceiptHeader{
		StoreName: cfg.Receipt.StoreName,
		Address:   cfg.Receipt.Address,
		Phone:     cfg.Receipt.Phone,
		TaxID:     cfg.Receipt.TaxID,
	})

	// Initialize services
	saleService := service.NewSaleService(
		repos.sales, repos.staff, repos.customers,
		taxCalc, composer, publisher, reportCache, m, log,
		service.SaleServiceConfig{
			InvoicePrefix:         cfg.Receipt.InvoicePrefix,
			DefaultServiceTaxRate: cfg.Tax.DefaultServiceRate,
		},
	)
	staffService := service.NewStaffService(repos.staff, repos.profiles, reportCache, log)
	customerService := service.NewCustomerService(repos.customers)
	profileService := service.NewCommissionProfileService(repos.profiles, reportCache, log)
	commissionService := service.NewCommissionService(
		repos.sales, repos.staff, repos.profiles,
		commissionCalc, reportCache, cfg.Commission.ReportCacheTTL, m, log,
	)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn("failed to initialize printer, receipts will not be printed", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()
	printerService := service.NewPrinterService(thermalPrinter, saleService, cfg.Printer.Width, log)

	// Initialize handlers
	handlers := &routes.Handlers{
		Sale:              handler.NewSaleHandler(saleService),
		Staff:             handler.NewStaffHandler(staffService, commissionService),
		Customer:          handler.NewCustomerHandler(customerService),
		CommissionProfile: handler.NewCommissionProfileHandler(profileService),
		Report:            handler.NewReportHandler(commissionService),
		Printer:           handler.NewPrinterHandler(printerService),
		Health:            handler.NewHealthHandler(repos.checks...),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repos.idempotency,
		Metrics:         m,
		Logger:          log,
		RateLimiter:     rateLimiter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, repos.idempotency, log)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
			zap.String("storage", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

// purgeIdempotencyKeys drops expired idempotency keys every hour
func purgeIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repo.DeleteExpired(ctx); err != nil {
				log.Warn("failed to purge idempotency keys", zap.Error(err))
			}
		}
	}
}
