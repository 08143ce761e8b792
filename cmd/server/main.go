package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/cache"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/config"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/database"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/handlers"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/middleware"
	"github.com/prathameshmane019/suhani-travels-sub000/internal/services"
	"github.com/prathameshmane019/suhani-travels-sub000/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Suhani Travels booking engine")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Booking repository runs transactions, so it needs the raw sqlx handle
	sqlxDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	// Optional route match cache
	var matchCache *cache.RouteMatchCache
	if cfg.Cache.Enabled {
		matchCache = cache.NewRouteMatchCache(
			cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL, logger)
		if matchCache != nil {
			defer matchCache.Close()
			logger.Info("Route match cache enabled")
		}
	}

	// Initialize repositories
	tripRepo := database.NewTripRepository(db)
	routeRepo := database.NewRouteRepository(db)
	busRepo := database.NewBusRepository(db)
	scheduleRepo := database.NewScheduleRepository(db)
	agentRepo := database.NewAgentRepository(db)
	bookingRepo := database.NewBookingRepository(sqlxDB.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	tripService := services.NewTripService(tripRepo, routeRepo, scheduleRepo, busRepo, matchCache, logger)
	bookingService := services.NewBookingService(bookingRepo, tripRepo, routeRepo, scheduleRepo, cfg.Booking, logger)
	agentService := services.NewAgentService(agentRepo, jwtService, cfg.Security.BcryptCost, logger)
	catalogService := services.NewCatalogService(routeRepo, busRepo, scheduleRepo, matchCache, logger)
	logger.Info("Services initialized")

	// Pre-materialize upcoming trips nightly
	cronService := services.NewCronService(tripService, 7, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(tripService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	agentHandler := handlers.NewAgentHandler(agentService, logger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, matchCache))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Trip search and inspection (public)
		trips := v1.Group("/trips")
		{
			trips.GET("/search", tripHandler.SearchTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.POST("", tripHandler.CreateTrip)
			trips.DELETE("/:id", tripHandler.DeleteTrip)
		}

		// Bookings: creation is open to anonymous and signed-in users alike
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.OptionalAuth(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListMyBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.GET("/reference/:reference", bookingHandler.GetBookingByReference)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
		}

		// Agent counter sales
		agent := v1.Group("/agent")
		{
			agent.POST("/login", agentHandler.Login)

			agentProtected := agent.Group("")
			agentProtected.Use(middleware.RequireAgent(jwtService))
			{
				agentProtected.GET("/me", agentHandler.Profile)
				agentProtected.POST("/bookings", bookingHandler.CreateAgentBooking)
				agentProtected.GET("/trips/:id/bookings", bookingHandler.ListTripBookings)
			}
		}

		// Catalog: routes, buses, schedules
		routes := v1.Group("/routes")
		{
			routes.GET("", catalogHandler.ListRoutes)
			routes.GET("/:id", catalogHandler.GetRoute)
			routes.GET("/:id/schedules", catalogHandler.ListRouteSchedules)
			routes.POST("", catalogHandler.CreateRoute)
		}

		buses := v1.Group("/buses")
		{
			buses.GET("", catalogHandler.ListBuses)
			buses.POST("", catalogHandler.CreateBus)
		}

		v1.POST("/schedules", catalogHandler.CreateSchedule)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler reports database and cache health
func healthCheckHandler(db database.DB, matchCache *cache.RouteMatchCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		cacheStatus := "disabled"
		if matchCache != nil {
			cacheStatus = "healthy"
			if err := matchCache.HealthCheck(c.Request.Context()); err != nil {
				cacheStatus = "unhealthy"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"cache":     cacheStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
