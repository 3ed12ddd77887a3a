package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"labsched/config"
	"labsched/database"
	bookingRepo "labsched/database/repository/booking"
	"labsched/handlers"
	"labsched/middleware"
	"labsched/routes"
	"labsched/services/intelligence"
	"labsched/services/schedule"
	"labsched/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	catalogs := config.DefaultCatalogs()

	// repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()
	if mongoRepo, ok := bkRepo.(*bookingRepo.MongoBookingRepo); ok {
		if err := mongoRepo.EnsureIndexes(); err != nil {
			logger.Sugar().Warnf("main: failed to ensure booking indexes: %v", err)
		}
	}

	// services.
	heuristicEngine := schedule.NewHeuristicEngine(catalogs)
	conflictChecker := schedule.NewConflictChecker(bkRepo, catalogs)
	commitService := schedule.NewCommitService(bkRepo, catalogs)

	var llmEngine *intelligence.GeminiEngine
	if config.AppConfig.GeminiAPIKey != "" {
		geminiClient := intelligence.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		llmEngine = intelligence.NewGeminiEngine(geminiClient, catalogs)
	} else {
		logger.Sugar().Info("main: no GEMINI_API_KEY set, llm strategy disabled")
	}

	sessionCache := utils.GetSessionCacheClient()
	scheduleHandler := handlers.NewScheduleHandler(
		heuristicEngine,
		llmEngine,
		conflictChecker,
		commitService,
		sessionCache,
		catalogs,
		logger,
	)
	catalogHandler := handlers.NewCatalogHandler(catalogs)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ExtractHandler:         scheduleHandler.ExtractHandler,
		GetSessionHandler:      scheduleHandler.GetSessionHandler,
		DiscardSessionHandler:  scheduleHandler.DiscardSessionHandler,
		UpdateCandidateHandler: scheduleHandler.UpdateCandidateHandler,
		AddCandidateHandler:    scheduleHandler.AddCandidateHandler,
		DeleteCandidateHandler: scheduleHandler.DeleteCandidateHandler,
		RecheckHandler:         scheduleHandler.RecheckHandler,
		CommitHandler:          scheduleHandler.CommitHandler,

		GetCatalogsHandler:   catalogHandler.GetCatalogsHandler,
		GetLabsByTypeHandler: catalogHandler.GetLabsByTypeHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(sessionCache, database.MongoClient)

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
