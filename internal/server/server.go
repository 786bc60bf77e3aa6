package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warung-pos/config"
	"warung-pos/internal/handler"
	"warung-pos/internal/middleware"
	"warung-pos/internal/services"
	"warung-pos/internal/transport/httpdto"
	"warung-pos/pkg/database"
	"warung-pos/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Profile     *handler.ProfileHandler
	Chat        *handler.ChatHandler
	Message     *handler.MessageHandler
	Upload      *handler.UploadHandler
	Product     *handler.ProductHandler
	Customer    *handler.CustomerHandler
	Transaction *handler.TransactionHandler
	Report      *handler.ReportHandler
	Analytics   *handler.AnalyticsHandler
	Settings    *handler.SettingsHandler
	WebSocket   *WebSocketHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, db *gorm.DB) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	authRequired := middleware.AuthMiddleware(authService)
	adminOnly := middleware.RequireRole("admin")

	auth := s.engine.Group("/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", authRequired, handlers.Auth.Logout)
		auth.POST("/logout-all", authRequired, handlers.Auth.LogoutAll)
	}

	profiles := s.engine.Group("/v1/profiles", authRequired)
	{
		profiles.GET("/me", handlers.Profile.Me)
		profiles.PATCH("/me", handlers.Profile.UpdateMe)
		profiles.GET("", handlers.Profile.List)
		profiles.PUT("/:userId/role", adminOnly, handlers.Profile.SetRole)
		profiles.GET("/:userId/presence", handlers.Profile.Presence)
	}
	s.engine.GET("/v1/presence/online", authRequired, handlers.Profile.OnlineUsers)

	chats := s.engine.Group("/v1/chats", authRequired)
	{
		chats.GET("", handlers.Chat.List)
		chats.POST("/direct", handlers.Chat.Direct)
		chats.POST("/group", handlers.Chat.Group)
		chats.GET("/:chatId/open", handlers.Chat.Open)
		chats.POST("/:chatId/read", handlers.Chat.MarkRead)
		chats.POST("/:chatId/typing", handlers.Chat.Typing)
		chats.GET("/:chatId/typing", handlers.Chat.TypingUsers)
		chats.GET("/:chatId/messages", handlers.Message.History)
		chats.POST("/:chatId/messages", handlers.Message.Send)
	}
	s.engine.PATCH("/v1/messages/:messageId", authRequired, handlers.Message.Edit)

	uploads := s.engine.Group("/v1/uploads", authRequired)
	{
		uploads.POST("", handlers.Upload.Upload)
		uploads.POST("/presign", handlers.Upload.Presign)
	}

	products := s.engine.Group("/v1/products", authRequired)
	{
		products.GET("", handlers.Product.List)
		products.GET("/low-stock", handlers.Product.LowStock)
		products.GET("/:productId", handlers.Product.Get)
		products.POST("", adminOnly, handlers.Product.Create)
		products.PUT("/:productId", adminOnly, handlers.Product.Update)
		products.DELETE("/:productId", adminOnly, handlers.Product.Deactivate)
		products.POST("/:productId/restock", adminOnly, handlers.Product.Restock)
	}

	customers := s.engine.Group("/v1/customers", authRequired)
	{
		customers.GET("", handlers.Customer.List)
		customers.GET("/:customerId", handlers.Customer.Get)
		customers.POST("", handlers.Customer.Create)
		customers.PUT("/:customerId", handlers.Customer.Update)
		customers.DELETE("/:customerId", adminOnly, handlers.Customer.Delete)
	}

	transactions := s.engine.Group("/v1/transactions", authRequired)
	{
		transactions.GET("", handlers.Transaction.List)
		transactions.GET("/:transactionId", handlers.Transaction.Get)
		transactions.POST("", handlers.Transaction.Checkout)
		transactions.POST("/:transactionId/complete", handlers.Transaction.Complete)
	}

	reports := s.engine.Group("/v1/reports", authRequired)
	{
		reports.GET("", handlers.Report.List)
		reports.GET("/:date", handlers.Report.Get)
		reports.POST("", handlers.Report.Generate)
	}

	analytics := s.engine.Group("/v1/analytics", authRequired)
	{
		analytics.GET("/dashboard", handlers.Analytics.Dashboard)
		analytics.GET("/best-sellers", handlers.Analytics.BestSellers)
		analytics.GET("/top-customers", handlers.Analytics.TopCustomers)
		analytics.GET("/sales-trend", handlers.Analytics.SalesTrend)
		analytics.GET("/sales-by-category", handlers.Analytics.SalesByCategory)
		analytics.GET("/sales-by-hour", handlers.Analytics.SalesByHour)
	}

	settings := s.engine.Group("/v1/settings", authRequired)
	{
		settings.GET("", handlers.Settings.Get)
		settings.PUT("", adminOnly, handlers.Settings.Update)
	}

	if handlers.WebSocket != nil {
		s.engine.GET("/ws", handlers.WebSocket.Handle)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
