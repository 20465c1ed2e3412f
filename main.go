package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/config"
	"voyago/cron"
	"voyago/database"
	bookingRepoPkg "voyago/database/repository/booking"
	credentialRepoPkg "voyago/database/repository/credential"
	"voyago/handlers"
	"voyago/middleware"
	"voyago/routes"
	"voyago/services/booking"
	"voyago/services/credstore"
	"voyago/services/invoice"
	"voyago/services/notification"
	"voyago/services/provider"
	"voyago/services/token"
	"voyago/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitIntentCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	credRepo := credentialRepoPkg.NewMongoCredentialRepo()

	// provider integration layer.
	credStore := credstore.NewDefaultCredentialStore(credRepo, config.AppConfig.CredentialCacheTTL, logger)
	resolver := &provider.DefaultConfigResolver{Store: credStore}
	tokenManager := token.NewDefaultManager(&http.Client{}, logger)
	upstream := provider.NewClient(resolver, tokenManager, config.AppConfig.UpstreamTimeout, logger)

	flightAdapter := &provider.FlightAdapter{Client: upstream, ProviderName: "amadeus"}
	hotelAdapter := &provider.HotelAdapter{Client: upstream, ProviderName: "hotelbeds"}
	carAdapter := &provider.CatalogAdapter{Client: upstream, ProviderName: "cars", ItemKind: "car"}
	tourAdapter := &provider.CatalogAdapter{Client: upstream, ProviderName: "tours", ItemKind: "tour"}
	transferAdapter := &provider.CatalogAdapter{Client: upstream, ProviderName: "transfers", ItemKind: "transfer"}

	registry := provider.NewRegistry(flightAdapter, hotelAdapter, carAdapter, tourAdapter, transferAdapter)

	// mail queue.
	mailClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisMailQueueDB,
	})
	mailer, err := notification.NewAsynqMailer(mailClient)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize mailer: %v", err)
	}

	emailSender, err := notification.NewDefaultEmailSender(invoice.NewTextGenerator("Voyago"))
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize email sender: %v", err)
	}
	cron.InitMailWorker(emailSender)

	// booking orchestration.
	intentStore := booking.NewRedisIntentStore(utils.GetIntentCacheClient())
	orchestrator := &booking.DefaultOrchestrator{
		Intents:  intentStore,
		Bookings: bookingRepo,
		Flights:  flightAdapter,
		Bookers: map[string]provider.BookingAdapter{
			"cars":      carAdapter,
			"tours":     tourAdapter,
			"transfers": transferAdapter,
		},
		Payments: &booking.StripePaymentVerifier{Logger: logger},
		Mailer:   mailer,
		Logger:   logger,
	}

	// handler wiring.
	handlers.SearchRegistry = registry
	handlers.IntentStore = intentStore
	handlers.Orchestrator = orchestrator
	handlers.BookingRepo = bookingRepo

	routes.RegisterRoutes(router)

	utils.StartHealthMonitor(utils.GetIntentCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	if err := mailClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close mail client: %v", err)
	}
	logger.Info("Server exited")
}
