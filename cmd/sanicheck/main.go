package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/hygiatech/sanicheck/internal/config"
	"github.com/hygiatech/sanicheck/internal/inspection/entity"
	"github.com/hygiatech/sanicheck/internal/inspection/handler"
	"github.com/hygiatech/sanicheck/internal/inspection/repository"
	"github.com/hygiatech/sanicheck/internal/inspection/service"
	"github.com/hygiatech/sanicheck/internal/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting sanicheck service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := migrate(db); err != nil {
		zapLogger.Fatal("Database migration failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, db, rdb, cfg, asynqClient, nil, zapLogger)

	if err := seedAdmin(db, zapLogger); err != nil {
		zapLogger.Warn("Admin seed warning", zap.Error(err))
	}

	handlers := handler.NewHandlers(
		services.Auth,
		services.Upload,
		services.Inspection,
		services.Plan,
		services.Dashboard,
		services.Export,
		services.Admin,
	)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Company{},
		&entity.Establishment{},
		&entity.EstablishmentContact{},
		&entity.Inspection{},
		&entity.ActionPlan{},
		&entity.ActionPlanItem{},
		&entity.Job{},
		&entity.ActivityLog{},
	); err != nil {
		return err
	}

	// additions AutoMigrate does not cover
	migrationSQL := []string{
		"CREATE INDEX IF NOT EXISTS idx_inspections_est_status ON inspections(establishment_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_jobs_inspection_created ON jobs(inspection_id, created_at DESC)",
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin creates the bootstrap admin on an empty users table. The
// password comes from ADMIN_PASSWORD and is required for the seed.
func seedAdmin(db *gorm.DB, zapLogger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		zapLogger.Warn("Users table empty and ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		ID:           uuid.New().String()[:32],
		Username:     "admin",
		Name:         "Administrador",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Status:       entity.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	zapLogger.Info("Bootstrap admin user created")
	return nil
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			inspections := authorized.Group("/inspections")
			{
				inspections.GET("", h.Inspection.ListInspections)
				inspections.GET("/:id", h.Inspection.GetInspection)
				inspections.GET("/:id/tracker", h.Inspection.GetTracker)
				inspections.GET("/:id/report", h.Inspection.GetReport)
				inspections.GET("/:id/activity", h.Inspection.GetActivity)
				inspections.GET("/:id/export", h.Inspection.ExportPlan)
				inspections.GET("/:id/file", h.Upload.GetFileURL)
				inspections.GET("/:id/share", h.Plan.ShareLink)

				// consultant actions
				consultant := inspections.Group("")
				consultant.Use(middleware.RequireRole(entity.RoleConsultant))
				{
					consultant.POST("/upload", h.Upload.UploadInspection)
					consultant.POST("/:id/evidence", h.Upload.UploadEvidence)
					consultant.POST("/:id/verification/start", h.Plan.StartVerification)
					consultant.PUT("/:id/review", h.Plan.SaveReview)
					consultant.POST("/:id/verification/finish", h.Plan.FinishVerification)
				}

				// manager actions
				manager := inspections.Group("")
				manager.Use(middleware.RequireRole(entity.RoleManager))
				{
					manager.PUT("/:id/plan", h.Plan.SavePlan)
					manager.POST("/:id/approve", h.Plan.Approve)
					manager.POST("/:id/cancel", h.Plan.Cancel)
				}
			}

			authorized.GET("/jobs", h.Inspection.ListJobs)
			authorized.GET("/jobs/:id", h.Inspection.GetJob)

			dashboard := authorized.Group("/dashboard")
			dashboard.Use(middleware.RequireRole(entity.RoleManager))
			{
				dashboard.GET("/manager", h.Dashboard.Manager)
			}

			admin := authorized.Group("/admin")
			admin.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				admin.POST("/companies", h.Admin.CreateCompany)
				admin.GET("/companies", h.Admin.ListCompanies)
				admin.POST("/establishments", h.Admin.CreateEstablishment)
				admin.GET("/establishments", h.Admin.ListEstablishments)
				admin.GET("/establishments/:id", h.Admin.GetEstablishment)
				admin.PUT("/establishments/:id", h.Admin.UpdateEstablishment)
				admin.POST("/establishments/:id/contacts", h.Admin.CreateContact)
				admin.POST("/users", h.Admin.CreateUser)
				admin.GET("/users", h.Admin.ListUsers)
				admin.PUT("/users/:id", h.Admin.UpdateUser)
			}
		}
	}
}
