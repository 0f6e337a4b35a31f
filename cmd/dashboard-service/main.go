package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"analytics-dashboard/internal/api/handlers"
	apimiddleware "analytics-dashboard/internal/api/middleware"
	"analytics-dashboard/internal/auth"
	"analytics-dashboard/internal/config"
	"analytics-dashboard/internal/infrastructure/mysql"
	"analytics-dashboard/internal/infrastructure/redis"
	"analytics-dashboard/internal/realtime"
	"analytics-dashboard/internal/services"
	"analytics-dashboard/pkg/logger"
)

func main() {
	log := logger.New()
	log.Info("Starting Analytics Dashboard Service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}(db)

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	// Test MySQL connection
	if err := db.PingContext(ctx); err != nil {
		log.Error("Failed to ping MySQL", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to MySQL")

	// Initialize repositories
	salesRepo := mysql.NewMySQLSalesRepository(db)
	orderRepo := mysql.NewMySQLOrderRepository(db)
	userRepo := mysql.NewMySQLUserRepository(db)
	analyticsRepo := mysql.NewMySQLAnalyticsRepository(db)

	// Initialize Redis based components
	eventPublisher := redis.NewEventPublisher(rdb)
	eventSubscriber := redis.NewEventSubscriber(rdb, log)
	kpiCache := redis.NewKPICache(rdb, 2*cfg.Realtime.KPIRefreshInterval)

	// Identity verification
	verifier := auth.NewJWTVerifier(cfg.JWT.Secret, cfg.JWT.TTL)

	// Realtime core: one registry + dispatcher per process, passed by
	// reference to every collaborator that broadcasts.
	registry := realtime.NewRegistry(log)
	dispatcher := realtime.NewDispatcher(registry, cfg.Realtime.DisconnectSettleDelay, log)

	// Initialize services
	authService := services.NewAuthService(userRepo, verifier, log)
	salesService := services.NewSalesService(salesRepo, eventPublisher, log)
	orderService := services.NewOrderService(orderRepo, eventPublisher, log)
	notificationService := services.NewNotificationService(eventPublisher, log)
	kpiRefresher := services.NewKPIRefresher(analyticsRepo, kpiCache, eventPublisher, cfg.Realtime.KPIRefreshInterval, log)
	eventListener := services.NewEventListener(dispatcher, dispatcher, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			echo.HeaderXRequestedWith,
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	salesHandler := handlers.NewSalesHandler(salesService, log)
	ordersHandler := handlers.NewOrdersHandler(orderService, log)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsRepo, kpiCache, log)
	adminHandler := handlers.NewAdminHandler(notificationService, log)
	wsHandlers := handlers.NewWebSocketHandlers(verifier, registry, dispatcher, cfg.Realtime.SendBufferSize, log)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("", apimiddleware.JWTAuth(verifier))
	protected.POST("/sales", salesHandler.CreateSale)
	protected.GET("/sales", salesHandler.ListSales)
	protected.GET("/sales/:id", salesHandler.GetSale)
	protected.DELETE("/sales/:id", salesHandler.DeleteSale, apimiddleware.RequireAdmin)
	protected.POST("/orders", ordersHandler.CreateOrder)
	protected.GET("/orders", ordersHandler.ListOrders)
	protected.GET("/orders/:id", ordersHandler.GetOrder)
	protected.PATCH("/orders/:id/status", ordersHandler.UpdateOrderStatus)
	protected.GET("/analytics/kpis", analyticsHandler.GetKPIs)
	protected.GET("/analytics/categories", analyticsHandler.GetCategoryBreakdown)
	protected.GET("/analytics/revenue-trends", analyticsHandler.GetRevenueTrend)
	protected.GET("/analytics/recent-transactions", analyticsHandler.GetRecentTransactions)
	protected.POST("/admin/notifications", adminHandler.SendNotification, apimiddleware.RequireAdmin)
	protected.POST("/admin/message", adminHandler.SendAdminMessage, apimiddleware.RequireAdmin)

	// Realtime endpoint; auth happens inside the handler before the upgrade.
	e.GET("/ws", echo.WrapHandler(http.HandlerFunc(wsHandlers.HandleConnection)))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "analytics-dashboard",
			"timestamp": time.Now().Format(time.RFC3339),
			"port":      cfg.Server.Port,
			"version":   "1.0.0",
		})
	})

	// Start background services
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	go func() {
		if err := eventListener.Start(listenerCtx, eventSubscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event listener stopped", "error", err)
		}
	}()

	go func() {
		if err := kpiRefresher.Start(context.Background()); err != nil {
			log.Error("Failed to start KPI refresher", "error", err)
		}
	}()

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting dashboard server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down dashboard service...")

	// Graceful shutdown
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := kpiRefresher.Stop(); err != nil {
		log.Error("Failed to stop KPI refresher", "error", err)
	}
	stopListener()

	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Dashboard service stopped")
}
