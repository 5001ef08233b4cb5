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
	"github.com/wanderplan/travel-booking-backend/internal/config"
	"github.com/wanderplan/travel-booking-backend/internal/database"
	"github.com/wanderplan/travel-booking-backend/internal/handlers"
	"github.com/wanderplan/travel-booking-backend/internal/middleware"
	"github.com/wanderplan/travel-booking-backend/internal/services"
	"github.com/wanderplan/travel-booking-backend/internal/session"
	"github.com/wanderplan/travel-booking-backend/internal/utils"
	"github.com/wanderplan/travel-booking-backend/pkg/jwt"
	"github.com/wanderplan/travel-booking-backend/pkg/validator"
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

	logger.Info("Starting WanderPlan Travel Booking Backend")
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

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	transactionRepository := database.NewTransactionRepository(db)
	savedPlaceRepository := database.NewSavedPlaceRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	sessionStore := session.NewMemoryStore()
	catalogService := services.NewCatalogService()
	itineraryService := services.NewItineraryService(
		services.RealSleeper{},
		cfg.Booking.PlanGenerationWait,
		logger,
	)
	paymentService := services.NewPaymentService(
		services.SuccessProvider{},
		services.RealSleeper{},
		cfg.Booking.PaymentWait,
		logger,
	)
	bookingService := services.NewBookingService(
		sessionStore,
		catalogService,
		itineraryService,
		paymentService,
		transactionRepository,
		cfg.Booking.SessionTTL,
		logger,
	)
	logger.Info("Services initialized")

	// Sweep expired booking sessions in the background
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go bookingService.RunSweeper(sweeperCtx, 5*time.Minute)

	// Initialize handlers
	phoneValidator := validator.NewPhoneValidator()
	authHandler := handlers.NewAuthHandler(jwtService, userRepository, phoneValidator, cfg)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	transactionHandler := handlers.NewTransactionHandler(transactionRepository)
	savedPlaceHandler := handlers.NewSavedPlaceHandler(savedPlaceRepository)

	// Initialize Gin router
	router := gin.New()

	// Middleware
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
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)

			// Protected routes (require JWT authentication)
			protected := auth.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.GET("/profile", authHandler.GetProfile)
				protected.POST("/complete-profile", authHandler.CompleteProfile)
				protected.POST("/mark-prompt-shown", authHandler.MarkPromptShown)
			}
		}

		// Catalog routes (public)
		destinations := v1.Group("/destinations")
		{
			destinations.GET("", catalogHandler.ListDestinations)
			destinations.GET("/trending", catalogHandler.ListTrendingDestinations)
			destinations.GET("/:id", catalogHandler.GetDestination)
		}
		v1.GET("/transport-options/:mode", catalogHandler.ListTransportOptions)

		// Booking session routes (protected)
		sessions := v1.Group("/booking/sessions")
		sessions.Use(middleware.AuthMiddleware(jwtService))
		{
			sessions.POST("", bookingHandler.StartSession)
			sessions.GET("/:id", bookingHandler.GetSession)
			sessions.POST("/:id/trip-details", bookingHandler.SubmitTripDetails)
			sessions.POST("/:id/generate-plan", bookingHandler.GeneratePlan)
			sessions.POST("/:id/transport-mode", bookingHandler.SelectTransportMode)
			sessions.POST("/:id/transport-option", bookingHandler.SelectTransportOption)
			sessions.POST("/:id/payment-method", bookingHandler.SelectPaymentMethod)
			sessions.POST("/:id/pay", bookingHandler.Pay)
			sessions.POST("/:id/abandon", bookingHandler.Abandon)
		}

		// Transaction routes (protected)
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthMiddleware(jwtService))
		{
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.GET("", transactionHandler.ListTransactions)
		}
		v1.GET("/transport-bookings", middleware.AuthMiddleware(jwtService), transactionHandler.ListTransportBookings)

		// Saved place routes (protected)
		savedPlaces := v1.Group("/saved-places")
		savedPlaces.Use(middleware.AuthMiddleware(jwtService))
		{
			savedPlaces.POST("", savedPlaceHandler.SavePlace)
			savedPlaces.GET("", savedPlaceHandler.ListSavedPlaces)
			savedPlaces.DELETE("/:id", savedPlaceHandler.DeleteSavedPlace)
		}
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

	// Graceful shutdown with timeout
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
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"user_agent": utils.GetUserAgent(c),
		}

		// Add user context if available
		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID.String()
			fields["username"] = userCtx.Username
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
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
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
