// cmd/server/main.go - GreenWatch report backend server
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenwatch/internal/channel"
	"greenwatch/internal/config"
	"greenwatch/internal/database"
	"greenwatch/internal/handlers"
	"greenwatch/internal/middleware"
	"greenwatch/internal/services"
	"greenwatch/internal/store"
	"greenwatch/pkg/auth"
	"greenwatch/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var appVersion = "1.0.0"

func main() {
	cfg := config.Load()
	log := setupLogging(cfg)

	log.WithFields(logrus.Fields{
		"version": appVersion,
		"env":     cfg.Env,
		"port":    cfg.Port,
	}).Info("starting greenwatch backend")

	db, err := database.NewMongoDB(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("error disconnecting from MongoDB")
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateIndexes(indexCtx); err != nil {
		log.WithError(err).Warn("failed to create some indexes")
	}
	cancelIndex()

	validator.Init()

	jwtManager := auth.NewJWTManager(
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpiration)*time.Hour,
	)

	// Stores
	reportStore := store.NewMongoReportStore(db.Database.Collection("reports"))
	teamStore := store.NewMongoTeamStore(db.Database.Collection("teams"))
	deliveryStore := store.NewMongoDeliveryStore(db.Database.Collection("deliveries"))

	// Outbound messaging channel
	messageChannel := channel.NewTwilioChannel(
		cfg.ChannelBaseURL,
		cfg.ChannelAccountSID,
		cfg.ChannelAuthToken,
		cfg.ChannelSender,
	)

	// Services
	reportService := services.NewReportService(reportStore, teamStore, log)
	teamService := services.NewTeamService(teamStore, reportStore, log)
	summaryService := services.NewSummaryService(reportStore)
	dispatcher := services.NewDispatcher(
		messageChannel,
		deliveryStore,
		time.Duration(cfg.SendTimeoutSec)*time.Second,
		log,
	)

	// Live dashboard feed
	hub := handlers.NewHub(log)
	go hub.Run()

	// Daily summary schedule
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if len(cfg.AlertRecipients) > 0 {
		scheduler := services.NewScheduler(summaryService, dispatcher, cfg.AlertRecipients, cfg.SummaryHour, log)
		go scheduler.Run(schedulerCtx)
	} else {
		log.Warn("no alert recipients configured, dispatch disabled")
	}

	reportHandler := handlers.NewReportHandler(reportService, summaryService, dispatcher, cfg.AlertRecipients, hub)
	teamHandler := handlers.NewTeamHandler(teamService)
	notificationHandler := handlers.NewNotificationHandler(dispatcher, summaryService, reportService, deliveryStore, cfg.AlertRecipients)
	wsHandler := handlers.NewWebSocketHandler(hub)

	router := setupRouter(cfg, log, jwtManager, reportHandler, teamHandler, notificationHandler, wsHandler, hub)

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		log.Infof("server listening on http://%s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	} else {
		log.Info("server stopped gracefully")
	}
}

func setupLogging(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		gin.SetMode(gin.DebugMode)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func setupRouter(
	cfg *config.Config,
	log *logrus.Logger,
	jwtManager *auth.JWTManager,
	reportHandler *handlers.ReportHandler,
	teamHandler *handlers.TeamHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WebSocketHandler,
	hub *handlers.Hub,
) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindow)*time.Second)
		router.Use(limiter.RateLimit())
	}

	// Live dashboard feed
	router.GET("/ws", wsHandler.HandleWebSocket)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   appVersion,
			"timestamp": time.Now().Format(time.RFC3339),
			"stats": gin.H{
				"websocket_connections": hub.ConnectionsCount(),
			},
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Public: community submission and map/list views
		v1.POST("/reports", reportHandler.CreateReport)
		v1.GET("/reports", reportHandler.GetReports)
		v1.GET("/reports/:id", reportHandler.GetReport)
		v1.GET("/categories", reportHandler.GetCategories)

		// Staff: lifecycle, teams, dispatch auditing
		staff := v1.Group("")
		staff.Use(middleware.AuthMiddleware(jwtManager))
		staff.Use(middleware.StaffMiddleware())

		staff.PUT("/reports/:id/status", reportHandler.UpdateReportStatus)
		staff.PUT("/reports/:id/assign", reportHandler.AssignReport)
		staff.POST("/reports/:id/notes", reportHandler.AddNote)
		staff.DELETE("/reports/:id", reportHandler.DeleteReport)
		staff.GET("/reports/stats", reportHandler.GetReportStats)

		staff.POST("/teams", teamHandler.CreateTeam)
		staff.GET("/teams", teamHandler.GetTeams)
		staff.GET("/teams/:id", teamHandler.GetTeam)
		staff.PUT("/teams/:id", teamHandler.UpdateTeam)
		staff.DELETE("/teams/:id", teamHandler.DeleteTeam)

		staff.POST("/alerts/daily-summary", notificationHandler.SendDailySummary)
		staff.GET("/alerts/deliveries", notificationHandler.GetDeliveries)
		staff.GET("/alerts/:job_id", notificationHandler.GetJobDeliveries)
		staff.POST("/alerts/:job_id/retry", notificationHandler.RetryJob)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}
