package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/config"
	"github.com/dinerozz/productivity-tracker-backend/docs"
	reportHandler "github.com/dinerozz/productivity-tracker-backend/internal/handler/report"
	syncHandler "github.com/dinerozz/productivity-tracker-backend/internal/handler/sync"
	trackingHandler "github.com/dinerozz/productivity-tracker-backend/internal/handler/tracking"
	"github.com/dinerozz/productivity-tracker-backend/internal/ratelimit"
	"github.com/dinerozz/productivity-tracker-backend/internal/repository"
	redisService "github.com/dinerozz/productivity-tracker-backend/internal/service/redis"
	reportService "github.com/dinerozz/productivity-tracker-backend/internal/service/report"
	trackingService "github.com/dinerozz/productivity-tracker-backend/internal/service/tracking"
	"github.com/dinerozz/productivity-tracker-backend/middleware"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterHandler struct {
	trackingHandler *trackingHandler.TrackingHandler
	syncHandler     *syncHandler.SyncHandler
	reportHandler   *reportHandler.ReportHandler
	limiters        map[string]ratelimit.Limiter
	db              *sqlx.DB
	redis           redisService.ServiceInterface
	jwtSecret       []byte
	logger          *slog.Logger
}

func RunServer(config *config.Config, logger *slog.Logger) {
	env := config.Env
	switch env {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
		log.Println("🚀 Starting server in PRODUCTION mode")
	case "dev", "development":
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode")
	default:
		gin.SetMode(gin.DebugMode)
		log.Println("🔧 Starting server in DEVELOPMENT mode (default)")
	}

	db, err := repository.NewRepository(config.DB)
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	defer db.Close()

	// the sqlite file is created on first start, so it is migrated in place
	if config.DB.Driver == "sqlite" {
		if err := repository.Migrate(db); err != nil {
			log.Fatal("❌ Failed to apply migrations:", err)
		}
	}

	var redisSrv redisService.ServiceInterface
	if config.Redis.Enabled {
		if srv := redisService.NewRedisService(redisService.RedisConfig{
			Host:     config.Redis.Host,
			Port:     config.Redis.Port,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		}); srv != nil {
			redisSrv = srv
			defer srv.Close()
		} else {
			log.Println("⚠️ Redis unavailable, rate limits stay process-local")
		}
	}

	loc := utils.LoadLocation(config.Tracking.Timezone)
	trackingRepo := repository.NewTrackingRepository(db)

	trackingSrv := trackingService.NewTrackingService(trackingRepo, trackingService.Options{
		MinVisitMs:   config.Tracking.MinVisitMs,
		Location:     loc,
		MaxRangeDays: config.Tracking.MaxRangeDays,
		Logger:       logger,
	})
	reportSrv := reportService.NewReportService(trackingRepo, reportService.Options{
		Location:     loc,
		MaxRangeDays: config.Tracking.MaxRangeDays,
	})

	routerHandler := &RouterHandler{
		trackingHandler: trackingHandler.NewTrackingHandler(trackingSrv),
		syncHandler:     syncHandler.NewSyncHandler(trackingSrv),
		reportHandler:   reportHandler.NewReportHandler(reportSrv),
		limiters:        newLimiters(config.RateLimit, redisSrv, logger),
		db:              db,
		redis:           redisSrv,
		jwtSecret:       []byte(config.Auth.JWTSecret),
		logger:          logger,
	}

	r := setupRouter(routerHandler)

	srv := &http.Server{
		Addr:    ":" + config.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("✅ Server starting on port %s", config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	gracefulShutdown(srv)
}

// newLimiters builds one limiter per endpoint group. With Redis the shared counter is
// authoritative and the local window takes over while the breaker is open.
func newLimiters(cfg config.RateLimitConfig, redisSrv redisService.ServiceInterface, logger *slog.Logger) map[string]ratelimit.Limiter {
	groups := map[string]int{
		"tracking": cfg.Tracking,
		"sync":     cfg.Sync,
		"reports":  cfg.Reports,
	}

	limiters := make(map[string]ratelimit.Limiter, len(groups))
	for group, limit := range groups {
		limitCfg := ratelimit.Config{
			MaxRequests:           limit,
			Window:                cfg.Window,
			CompactionProbability: cfg.CompactionProbability,
		}
		local := ratelimit.NewSlidingWindow(limitCfg, ratelimit.NewMemoryStore())

		if redisSrv == nil {
			limiters[group] = local
			continue
		}
		shared := ratelimit.NewRedisLimiter(redisSrv, limitCfg, group)
		limiters[group] = ratelimit.NewFallbackLimiter(group, shared, local, logger)
	}

	return limiters
}

func gracefulShutdown(srv *http.Server) {
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("🔄 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
		return
	}

	select {
	case <-ctx.Done():
		log.Println("⚠️ Server shutdown timeout exceeded")
	default:
		log.Println("✅ Server gracefully stopped")
	}
}

func setupRouter(routerHandler *RouterHandler) *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") ||
			strings.HasPrefix(origin, "chrome-extension://")) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.GET("/health", routerHandler.health)

	docs.SwaggerInfo.Host = "127.0.0.1:8080"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}
	docs.SwaggerInfo.Title = "Productivity tracker API"
	docs.SwaggerInfo.Description = "Browsing activity aggregation and productivity reports"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthenticationMiddleware(routerHandler.jwtSecret))

	tracking := api.Group("/tracking")
	tracking.Use(middleware.RateLimitMiddleware("tracking", routerHandler.limiters["tracking"], routerHandler.logger))
	{
		tracking.POST("/site", routerHandler.trackingHandler.RecordSite)
		tracking.GET("/today", routerHandler.trackingHandler.GetToday)
		tracking.GET("/date/:date", routerHandler.trackingHandler.GetDate)
		tracking.DELETE("/date/:date", routerHandler.trackingHandler.DeleteDate)
		tracking.GET("/range", routerHandler.trackingHandler.GetRange)
		tracking.GET("/weekly/:weekStart", routerHandler.trackingHandler.GetWeekly)
		tracking.GET("/stats", routerHandler.trackingHandler.GetStats)
		tracking.GET("/categories", routerHandler.trackingHandler.GetCategories)
		tracking.GET("/top-sites", routerHandler.trackingHandler.GetTopSites)
	}

	sync := api.Group("/sync")
	sync.Use(middleware.RateLimitMiddleware("sync", routerHandler.limiters["sync"], routerHandler.logger))
	{
		sync.POST("", routerHandler.syncHandler.Sync)
		sync.POST("/bulk", routerHandler.syncHandler.BulkSync)
		sync.POST("/focus-session", routerHandler.syncHandler.FocusSession)
		sync.POST("/blocked-attempt", routerHandler.syncHandler.BlockedAttempt)
		sync.GET("/data", routerHandler.syncHandler.GetData)
		sync.GET("/status", routerHandler.syncHandler.Status)
		sync.DELETE("/data", routerHandler.syncHandler.DeleteData)
	}

	reports := api.Group("/reports")
	reports.Use(middleware.RateLimitMiddleware("reports", routerHandler.limiters["reports"], routerHandler.logger))
	{
		reports.GET("/daily/:date", routerHandler.reportHandler.Daily)
		reports.GET("/weekly", routerHandler.reportHandler.Weekly)
		reports.GET("/monthly", routerHandler.reportHandler.Monthly)
		reports.GET("/custom", routerHandler.reportHandler.Custom)
		reports.GET("/productivity-trends", routerHandler.reportHandler.ProductivityTrends)
	}

	return r
}

func (h *RouterHandler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code, status, database := http.StatusOK, "healthy", "up"
	if err := h.db.PingContext(ctx); err != nil {
		code, status, database = http.StatusServiceUnavailable, "unhealthy", "down"
	}

	redis := "disabled"
	if h.redis != nil {
		redis = "up"
		if err := h.redis.Health(ctx); err != nil {
			redis = "down"
		}
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"service":   "productivity-tracker",
		"database":  database,
		"redis":     redis,
	})
}
