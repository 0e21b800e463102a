package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keyhubcentral/config"
	"keyhubcentral/cron"
	"keyhubcentral/database"
	availabilityRepoPkg "keyhubcentral/database/repository/availability"
	contractorRepoPkg "keyhubcentral/database/repository/contractor"
	jobRepoPkg "keyhubcentral/database/repository/job"
	ratingRequestRepoPkg "keyhubcentral/database/repository/ratingrequest"
	"keyhubcentral/handlers"
	"keyhubcentral/middleware"
	"keyhubcentral/routes"
	availabilitySvc "keyhubcentral/services/availability"
	"keyhubcentral/services/geocode"
	"keyhubcentral/services/rating"
	"keyhubcentral/services/recommend"
	"keyhubcentral/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	contractors := contractorRepoPkg.NewMongoContractorRepo()
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo()
	ratingRequests := ratingRequestRepoPkg.NewMongoRatingRequestRepo()
	jobs := jobRepoPkg.NewMongoJobRepo()

	if repo, ok := contractors.(*contractorRepoPkg.MongoContractorRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Warnf("main: contractor indexes: %v", err)
		}
	}
	if repo, ok := availabilityRepo.(*availabilityRepoPkg.MongoAvailabilityRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Warnf("main: availability indexes: %v", err)
		}
	}
	if repo, ok := ratingRequests.(*ratingRequestRepoPkg.MongoRatingRequestRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Sugar().Warnf("main: rating request indexes: %v", err)
		}
	}

	// Services.
	ratingService := &rating.DefaultService{
		Contractors: contractors,
		Logger:      logger,
	}
	availabilityService := &availabilitySvc.DefaultService{
		Repo: availabilityRepo,
	}
	geocoder := geocode.NewHTTPGeocoder(
		config.AppConfig.GeocodeBaseURL,
		config.AppConfig.GeocodeAPIKey,
		config.GeocodeTimeout(),
		utils.GetCacheClient(),
	)
	geocoder.Logger = logger

	recommender := &recommend.DefaultEngine{
		Contractors:  contractors,
		Availability: availabilityService,
		Geocoder:     geocoder,
		Logger:       logger,
	}
	lifecycle := &rating.LifecycleService{
		Requests:    ratingRequests,
		Contractors: contractors,
		Jobs:        jobs,
		Rating:      ratingService,
		Logger:      logger,
	}

	// Background worker for completion events and the expiry sweep.
	cron.InitWorker(lifecycle, logger)
	queueClient := cron.NewQueueClient()
	defer queueClient.Close()

	handlerBundle := &handlers.HandlerBundle{
		Contractors:  contractors,
		Rating:       ratingService,
		Lifecycle:    lifecycle,
		Availability: availabilityService,
		Recommender:  recommender,
		Queue:        queueClient,
	}
	routes.SetupRouter(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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
