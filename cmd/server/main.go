package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appevent "github.com/kitchenops/backend/internal/application/event"
	applogbook "github.com/kitchenops/backend/internal/application/logbook"
	appreport "github.com/kitchenops/backend/internal/application/report"
	appworkforce "github.com/kitchenops/backend/internal/application/workforce"
	"github.com/kitchenops/backend/internal/domain/report"
	"github.com/kitchenops/backend/internal/domain/shared"
	"github.com/kitchenops/backend/internal/infrastructure/cache"
	"github.com/kitchenops/backend/internal/infrastructure/config"
	"github.com/kitchenops/backend/internal/infrastructure/event"
	"github.com/kitchenops/backend/internal/infrastructure/logger"
	"github.com/kitchenops/backend/internal/infrastructure/persistence"
	"github.com/kitchenops/backend/internal/interfaces/http/handler"
	"github.com/kitchenops/backend/internal/interfaces/http/middleware"
	"github.com/kitchenops/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting KitchenOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Create outbox publisher for transactional event saving. MaxRetries
	// of 0 keeps failed deliveries retrying forever instead of dead-lettering.
	outboxPublisher := event.NewOutboxPublisher(eventSerializer, cfg.Event.MaxRetries)

	// Initialize repositories
	templateRepo := persistence.NewGormTemplateRepository(db.DB, outboxPublisher)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB, outboxPublisher)
	roleRepo := persistence.NewGormRoleRepository(db.DB, outboxPublisher)
	userRepo := persistence.NewGormUserRepository(db.DB, outboxPublisher)
	taskRepo := persistence.NewGormTaskRepository(db.DB, outboxPublisher)
	phaseRepo := persistence.NewGormPhaseRepository(db.DB, outboxPublisher)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Connect to Redis. The service degrades gracefully without it: reads
	// skip the template cache and idempotency tracking falls back to memory.
	var idempotencyStore shared.IdempotencyStore
	var templateCache applogbook.TemplateCache
	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient, "kitchenops")
		templateCache = cache.NewRedisTemplateCache(redisClient, cfg.Redis.TemplateCacheTTL)
		log.Info("Redis connected successfully")
	}

	// Initialize application services
	templateService := applogbook.NewTemplateService(templateRepo, submissionRepo, txManager, log)
	if templateCache != nil {
		templateService = templateService.WithCache(templateCache)
	}
	submissionService := applogbook.NewSubmissionService(templateRepo, submissionRepo, log)
	lifecycleService := appworkforce.NewLifecycleService(roleRepo, userRepo, taskRepo, phaseRepo, txManager, log)
	reportService := appreport.NewReportService(
		templateRepo,
		submissionRepo,
		report.ScheduleRules{
			ServicesPerDay: cfg.Report.ServicesPerDay,
			MealsPerDay:    cfg.Report.MealsPerDay,
		},
		mealRates(cfg.Report, log),
		complianceRules(cfg.Report),
		log,
	)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Sentinel rows must exist before any archive can reassign to them
	if err := lifecycleService.EnsureSentinels(context.Background()); err != nil {
		log.Fatal("Failed to ensure sentinel entities", zap.Error(err))
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Submission events mark their report week dirty so downstream
	// export jobs know what to refresh
	recomputeMarker := appreport.NewRecomputeMarker(log)
	eventHandlers := []shared.EventHandler{recomputeMarker}

	if templateCache != nil {
		// Template changes invalidate the read cache
		eventHandlers = append(eventHandlers, applogbook.NewTemplateCacheInvalidator(templateCache, log))
	}

	// The idempotency wrap keeps outbox redeliveries from repeating
	// handler side effects
	wrapped := event.WrapHandlersWithIdempotency(eventHandlers, idempotencyStore, log)
	for _, h := range wrapped {
		eventBus.Subscribe(h)
	}
	log.Info("Event handlers registered", zap.Int("handlers", len(wrapped)))

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize and start the outbox processor for guaranteed event delivery
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		processorConfig.BatchSize = cfg.Event.BatchSize
		processorConfig.PollInterval = cfg.Event.PollInterval
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Initialize HTTP handlers
	templateHandler := handler.NewTemplateHandler(templateService)
	submissionHandler := handler.NewSubmissionHandler(submissionService)
	workforceHandler := handler.NewWorkforceHandler(lifecycleService)
	reportHandler := handler.NewReportHandler(reportService).WithRecomputeMarker(recomputeMarker)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Handle cross-origin requests
	// 5. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Logbook domain: template registry and submission intake
	logbookRoutes := router.NewDomainGroup("logbook", "/logbook")
	logbookRoutes.POST("/templates", templateHandler.Create)
	logbookRoutes.GET("/templates", templateHandler.List)
	logbookRoutes.GET("/templates/:id", templateHandler.Get)
	logbookRoutes.PUT("/templates/:id/schema", templateHandler.UpdateSchema)
	logbookRoutes.POST("/templates/:id/retire", templateHandler.Retire)
	logbookRoutes.GET("/templates/:id/submissions", submissionHandler.ListByTemplate)
	logbookRoutes.POST("/submissions", submissionHandler.Submit)
	logbookRoutes.POST("/submissions/drafts", submissionHandler.SaveDraft)
	logbookRoutes.GET("/submissions/:id", submissionHandler.Get)
	logbookRoutes.POST("/submissions/:id/complete", submissionHandler.Complete)
	logbookRoutes.POST("/submissions/:id/corrections", submissionHandler.Correct)

	// Workforce domain: roles, users, tasks and phases
	workforceRoutes := router.NewDomainGroup("workforce", "/workforce")
	workforceRoutes.POST("/roles", workforceHandler.CreateRole)
	workforceRoutes.POST("/roles/:id/transition", workforceHandler.TransitionRole)
	workforceRoutes.POST("/roles/:id/archive", workforceHandler.ArchiveRole)
	workforceRoutes.POST("/users", workforceHandler.CreateUser)
	workforceRoutes.POST("/users/:id/transition", workforceHandler.TransitionUser)
	workforceRoutes.POST("/users/:id/archive", workforceHandler.ArchiveUser)
	workforceRoutes.POST("/tasks", workforceHandler.CreateTask)
	workforceRoutes.POST("/tasks/:id/transition", workforceHandler.TransitionTask)
	workforceRoutes.POST("/phases", workforceHandler.CreatePhase)
	workforceRoutes.POST("/phases/:id/retire", workforceHandler.RetirePhase)

	// Report domain: read-only views over the submission log
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/weekly-completion", reportHandler.WeeklyCompletion)
	reportRoutes.GET("/reimbursable-meals", reportHandler.ReimbursableMeals)
	reportRoutes.GET("/compliance-violations", reportHandler.ComplianceViolations)
	reportRoutes.GET("/log-history", reportHandler.LogHistory)
	reportRoutes.GET("/dirty-windows", reportHandler.DirtyWindows)

	// Admin routes carry the restore capability for archived entities
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.POST("/templates/:id/restore", templateHandler.Restore)
	adminRoutes.POST("/roles/:id/restore", workforceHandler.RestoreRole)
	adminRoutes.POST("/users/:id/restore", workforceHandler.RestoreUser)
	adminRoutes.POST("/phases/:id/restore", workforceHandler.RestorePhase)

	// System routes: service info plus outbox inspection and recovery
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/:id/retry", outboxHandler.RetryDeadEntry)
	systemRoutes.POST("/outbox/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/entries/:id", outboxHandler.GetEntry)
	systemRoutes.GET("/outbox/aggregates/:id/undelivered", outboxHandler.GetUndeliveredForAggregate)

	r.Register(logbookRoutes).
		Register(workforceRoutes).
		Register(reportRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// mealRates builds the reimbursement rate table from config
func mealRates(cfg config.ReportConfig, log *zap.Logger) report.MealRates {
	breakfast, err := decimal.NewFromString(cfg.BreakfastRate)
	if err != nil {
		log.Fatal("Invalid breakfast rate", zap.String("rate", cfg.BreakfastRate), zap.Error(err))
	}
	lunch, err := decimal.NewFromString(cfg.LunchRate)
	if err != nil {
		log.Fatal("Invalid lunch rate", zap.String("rate", cfg.LunchRate), zap.Error(err))
	}
	return report.MealRates{
		"breakfast": breakfast,
		"lunch":     lunch,
	}
}

// complianceRules builds the violation checks applied by the compliance
// report. Temperature bounds come from config, in degrees Fahrenheit,
// inclusive.
func complianceRules(cfg config.ReportConfig) report.ComplianceRules {
	coolerMin, coolerMax := cfg.CoolerMinF, cfg.CoolerMaxF
	freezerMax := cfg.FreezerMaxF
	hotHoldMin := cfg.HotHoldMinF
	return report.ComplianceRules{
		TemperatureRanges: map[string]report.SafeRange{
			"cooler":   {Min: &coolerMin, Max: &coolerMax},
			"freezer":  {Max: &freezerMax},
			"hot_hold": {Min: &hotHoldMin},
		},
		MealComponents:    []string{"protein", "grain", "fruit", "vegetable", "milk"},
		MinMealComponents: cfg.MinMealComponents,
	}
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
