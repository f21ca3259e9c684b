package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sodipas/negoce_backend/config"
	"github.com/sodipas/negoce_backend/controllers"
	"github.com/sodipas/negoce_backend/middlewares"
	"github.com/sodipas/negoce_backend/models"
	"github.com/sodipas/negoce_backend/utils"
)

const defaultPort = "8080"

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until the DB is ready, app endpoints return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true

	r.Use(cors.New(corsConfig))
	r.Use(middlewares.AuthMiddleware())
	r.Use(gin.Recovery())

	r.POST("/auth/login", controllers.Login)

	authed := r.Group("/", middlewares.RequireAuth())
	{
		authed.POST("/clients", controllers.CreateClient)
		authed.GET("/clients", controllers.ListClients)
		authed.GET("/clients/:id", controllers.GetClient)
		authed.PUT("/clients/:id", controllers.UpdateClient)
		authed.DELETE("/clients/:id", controllers.DeleteClient)
		authed.PUT("/clients/:id/active", controllers.ToggleActiveClient)

		authed.POST("/invoices", controllers.CreateInvoice)
		authed.GET("/invoices", controllers.ListInvoices)
		authed.GET("/invoices/:id", controllers.GetInvoice)

		authed.POST("/payments", controllers.RecordPayment)
		authed.GET("/payments", controllers.ListPayments)
		authed.GET("/payments/:id", controllers.GetPayment)

		authed.POST("/cageots", controllers.ApplyCageotMovement)
		authed.POST("/cageots/preview", controllers.PreviewCageotMovement)
		authed.GET("/cageots", controllers.ListCageotMovements)

		authed.GET("/closures/summary", controllers.GetDailySummary)
		authed.POST("/closures", controllers.CloseDay)
		authed.GET("/closures", controllers.ListClosures)
		authed.GET("/closures/:id", controllers.GetClosure)
		authed.GET("/closures/:id/report", controllers.GetClosureReport)

		authed.POST("/trucks", controllers.RegisterTruck)
		authed.GET("/trucks", controllers.ListTrucks)
		authed.GET("/trucks/:id", controllers.GetTruck)
		authed.POST("/trucks/:id/unload", controllers.UnloadTruck)

		authed.GET("/hangars", controllers.ListHangars)
		authed.GET("/hangars/:id", controllers.GetHangar)
		authed.GET("/hangars/:id/stocks", controllers.GetHangarStocks)
	}

	admin := r.Group("/admin", middlewares.RequireAuth(), middlewares.RequireRole(string(models.UserRoleAdmin)))
	{
		admin.POST("/users", controllers.CreateUser)
		admin.GET("/users", controllers.ListUsers)
		admin.POST("/hangars", controllers.CreateHangar)
		admin.PUT("/hangars/:id", controllers.UpdateHangar)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow running it as a separate job.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
