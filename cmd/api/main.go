package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/notify"
	"classtrack/internal/queue"
	"classtrack/internal/report"
	"classtrack/internal/store"
	"classtrack/internal/subject"
	"classtrack/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("warning: db not reachable: %v", err)
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()
	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Printf("warning: schema bootstrap failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, notify.QueueName)
	}

	cache := report.NewCache(redisClient.Client, cfg.ReportCacheTTL)
	userSvc := user.NewService(user.NewRepository(db.Client))
	attSvc := attendance.NewService(attendance.NewRepository(db.Client), cache, notify.NewPublisher(q))
	subjects := subject.NewRepository(db.Client)

	s := &server{
		cfg:      cfg,
		users:    userSvc,
		marks:    attSvc,
		subjects: subjects,
		cache:    cache,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/setup", s.setup)
	r.GET("/login", s.loginInfo)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)

	authed := r.Group("", auth.SessionAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	admin := authed.Group("/admin", auth.RequireAction(auth.ActionManageUsers))
	admin.GET("", s.adminListUsers)
	admin.GET("/subjects", s.adminListSubjects)
	admin.POST("/users", s.adminCreateUser)
	admin.GET("/users/:id/toggle", s.adminToggleUser)
	admin.GET("/users/:id/delete", s.adminDeleteUser)

	teacher := authed.Group("/teacher", auth.RequireAction(auth.ActionMarkAttendance))
	teacher.GET("", s.teacherDashboard)
	teacher.GET("/mark", s.teacherRoster)
	teacher.POST("/mark/:student", s.teacherMark)
	authed.GET("/teacher/monthly-report", auth.RequireAction(auth.ActionClassReport), s.teacherMonthlyReport)

	cc := authed.Group("/cc", auth.RequireAction(auth.ActionMatrixReport))
	cc.GET("/report", s.ccReport)
	cc.GET("/report/export", s.ccReportExport)

	authed.GET("/student", auth.RequireAction(auth.ActionOwnSummary), s.studentDashboard)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
