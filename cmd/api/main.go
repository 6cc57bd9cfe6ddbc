package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"inspectdesk/internal/config"
	"inspectdesk/internal/database"
	"inspectdesk/internal/middleware"
	"inspectdesk/internal/modules/auth"
	"inspectdesk/internal/modules/availability"
	"inspectdesk/internal/modules/billing"
	"inspectdesk/internal/modules/pricing"
	"inspectdesk/internal/modules/scheduling"
	"inspectdesk/internal/notification"
	jwtsvc "inspectdesk/internal/pkg/jwt"
	"inspectdesk/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	accountRepo := repository.NewAccountRepository(db)
	inspectorRepo := repository.NewInspectorRepository(db)
	clientRepo := repository.NewClientRepository(db)
	realtorRepo := repository.NewRealtorRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	defer hub.Close()
	notifier := notification.NewService(outboxRepo, clientRepo, realtorRepo, hub)

	dispatcher := notification.NewDispatcher(outboxRepo, notification.LogSender{}, cfg.OutboxInterval, cfg.OutboxBatchSize)
	if err := dispatcher.Start(); err != nil {
		log.Fatal(err)
	}
	defer dispatcher.Stop()

	limits := scheduling.Limits{MaxSqft: cfg.MaxSqft, MinYearBuilt: cfg.MinYearBuilt}

	authService := auth.NewService(inspectorRepo, j)
	authHandler := auth.NewHandler(authService)

	pricingService := pricing.NewService(accountRepo)
	pricingHandler := pricing.NewHandler(pricingService)

	availabilityService := availability.NewService(inspectorRepo, inspectionRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	schedulingService := scheduling.NewService(
		accountRepo,
		inspectorRepo,
		clientRepo,
		realtorRepo,
		inspectionRepo,
		availabilityService,
		notifier,
		limits,
	)
	schedulingHandler := scheduling.NewHandler(schedulingService)

	billingService := billing.NewService(accountRepo, inspectionRepo, documentRepo, notifier)
	billingHandler := billing.NewHandler(billingService)

	wsHandler := notification.NewWSHandler(hub, j)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())

	wsHandler.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	{
		// public: the booking widget and token-gated documents
		authHandler.RegisterPublicRoutes(v1)
		pricingHandler.RegisterRoutes(v1)
		schedulingHandler.RegisterPublicRoutes(v1)
		billingHandler.RegisterPublicRoutes(v1)

		// protected: the dashboard
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterRoutes(protected)
			availabilityHandler.RegisterRoutes(protected)
			schedulingHandler.RegisterRoutes(protected)
			billingHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
