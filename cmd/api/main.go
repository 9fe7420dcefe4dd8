package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quillcms/quill-backend/internal/config"
	"github.com/quillcms/quill-backend/internal/handler"
	"github.com/quillcms/quill-backend/internal/middleware"
	"github.com/quillcms/quill-backend/internal/repository"
	"github.com/quillcms/quill-backend/internal/routes"
	"github.com/quillcms/quill-backend/internal/service"
	"github.com/quillcms/quill-backend/pkg/jwt"
	"github.com/quillcms/quill-backend/pkg/lock"
	"github.com/quillcms/quill-backend/pkg/logger"
	pkgredis "github.com/quillcms/quill-backend/pkg/redis"

	"github.com/robfig/cron/v3"
)

// @title Quill Content Lifecycle API
// @version 1.0
// @description Scheduling, versioning and bulk operations for CMS content
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	logger.Init(env)
	log := logger.GetLogger()

	cfg, err := config.Load(configPath(env))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	gormLogLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLogLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Redis backs the advisory locks. Without it the engine still runs,
	// on the single-process contract.
	var locker lock.Locker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient)
	} else {
		log.Warn().Msg("redis disabled, advisory locks are process-local no-ops")
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	contentRepo := repository.NewContentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo)
	versioningService := service.NewVersioningService(contentRepo, versionRepo, logger.WithComponent("versioning"))
	schedulingService := service.NewSchedulingService(contentRepo, scheduleRepo, versioningService,
		notificationService, locker, logger.WithComponent("scheduling"), cfg.Lifecycle.DefaultMaxRetries)
	bulkService := service.NewBulkService(contentRepo, versioningService, schedulingService,
		logger.WithComponent("bulk"))

	scheduler := startJobs(cfg, schedulingService, versioningService)
	defer scheduler.Stop()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(cfg)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Handlers{
		Schedule:     handler.NewScheduleHandler(schedulingService),
		Version:      handler.NewVersionHandler(versioningService),
		Bulk:         handler.NewBulkHandler(bulkService),
		Notification: handler.NewNotificationHandler(notificationService),
	}, jwtManager)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// startJobs wires the due-schedule drain and the retention cleanups into
// the cron scheduler and starts it.
func startJobs(cfg *config.Config, scheduling service.SchedulingService, versioning service.VersioningService) *cron.Cron {
	log := logger.WithComponent("jobs")
	scheduler := cron.New()

	_, err := scheduler.AddFunc(cfg.Lifecycle.DueRunSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		report, err := scheduling.ExecuteDueSchedules(ctx)
		if err != nil {
			log.Error().Err(err).Msg("due-schedule run failed")
			return
		}
		if report.Executed > 0 || report.Failed > 0 {
			log.Info().
				Int("executed", report.Executed).
				Int("failed", report.Failed).
				Msg("due-schedule run finished")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Lifecycle.DueRunSpec).Msg("invalid due-run cron spec")
	}

	_, err = scheduler.AddFunc(cfg.Lifecycle.CleanupSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		schedules, err := scheduling.CleanupOldSchedules(ctx, cfg.Lifecycle.ScheduleRetentionDays)
		if err != nil {
			log.Error().Err(err).Msg("schedule retention failed")
		}
		versions, err := versioning.CleanupAllVersions(ctx, cfg.Lifecycle.VersionKeepCount)
		if err != nil {
			log.Error().Err(err).Msg("version retention failed")
		}
		log.Info().
			Int64("schedules_deleted", schedules).
			Int64("versions_deleted", versions).
			Msg("retention cleanup finished")
	})
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Lifecycle.CleanupSpec).Msg("invalid cleanup cron spec")
	}

	scheduler.Start()
	return scheduler
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	if cfg.CORS.AllowOrigins == "" || cfg.CORS.AllowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORS.AllowOrigins, ",")
	}
	return corsCfg
}

func configPath(env string) string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
