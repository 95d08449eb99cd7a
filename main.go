package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servana/config"
	"servana/cron"
	"servana/database/repository"
	"servana/database/rest"
	"servana/handlers"
	"servana/middleware"
	"servana/routes"
	"servana/services/availability"
	"servana/services/booking"
	"servana/services/tasks"
	"servana/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	cacheClient := utils.GetCacheClient()
	feedClient := utils.GetFeedClient()

	// Remote data store client with credential refresh.
	tokenSource := rest.NewIdentityTokenSource(
		config.AppConfig.IdentityBaseURL,
		config.AppConfig.IdentityRefreshToken,
		config.AppConfig.StoreTimeout,
	)
	storeClient := rest.NewClient(rest.Config{
		BaseURL:        config.AppConfig.StoreBaseURL,
		APIKey:         config.AppConfig.StoreAPIKey,
		Timeout:        config.AppConfig.StoreTimeout,
		NetworkRetries: config.AppConfig.StoreNetworkRetries,
	}, tokenSource, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// repositories.
	serviceRepo := repository.NewRestServiceRepo(storeClient)
	businessRepo := repository.NewRestBusinessRepo(storeClient)
	bookingRepo := repository.NewRestBookingRepo(storeClient)
	addressRepo := repository.NewRestAddressRepo(storeClient)

	// background queue.
	enqueuer := tasks.NewEnqueuer(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer enqueuer.Close()
	cron.InitSyncWorker(bookingRepo, feedClient)

	// services.
	availabilitySvc := &availability.DefaultAvailabilityService{
		ServiceRepo:  serviceRepo,
		BusinessRepo: businessRepo,
		Cache:        cacheClient,
		CacheTTL:     time.Minute,
	}
	bookingSvc := &booking.DefaultBookingService{
		Repo:  bookingRepo,
		Tasks: enqueuer,
	}
	flowSvc := &booking.DefaultFlowService{
		Sessions:    booking.NewSessionStore(cacheClient),
		AddressRepo: addressRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilitySvc, logger),
		Booking:      handlers.NewBookingHandler(bookingSvc, logger),
		Flow:         handlers.NewFlowHandler(flowSvc, logger),
		Sync:         handlers.NewSyncHandler(feedClient, bookingRepo, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{cacheClient, feedClient}, storeClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
