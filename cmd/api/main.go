package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"task-tracker/internal/core/auth"
	"task-tracker/internal/core/cache"
	"task-tracker/internal/core/chart"
	"task-tracker/internal/core/config"
	"task-tracker/internal/core/database"
	"task-tracker/internal/core/logger"
	"task-tracker/internal/core/server"
	"task-tracker/internal/repo"
	"task-tracker/internal/service"
	"task-tracker/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad("")
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	creds := &auth.Credentials{
		Cost:       cfg.Auth.BcryptCost,
		TokenBytes: cfg.Auth.TokenBytes,
		TTL:        cfg.Auth.TokenTTL(),
	}
	userRepo := repo.NewUserRepo(db)
	taskRepo := repo.NewTaskRepo(db)

	var chartCache service.ChartCache
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := c.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, charts render uncached until it recovers", zap.Error(err))
		}
		cancel()
		chartCache = c
	}

	users, err := service.NewUserService(userRepo, creds, log)
	if err != nil {
		log.Fatal("user service", zap.Error(err))
	}

	r := router.NewAPIEngine(router.Deps{
		Log:   log,
		Users: users,
		Tasks: service.NewTaskService(taskRepo, userRepo),
		Analytics: service.NewAnalyticsService(
			taskRepo,
			chart.NewBarRenderer(cfg.Analytics.ChartWidth, cfg.Analytics.ChartHeight),
			chartCache,
			time.Duration(cfg.Analytics.CacheTTLSec)*time.Second,
			log,
		),
		Limits: cfg.Limits,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("task api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("task api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("task api stopped")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	w, err := logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel)
	if err != nil {
		l.Fatal("gorm logger", zap.Error(err))
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Writer:             w,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
