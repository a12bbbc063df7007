package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lexsuite-backend/internal/app"
	"github.com/ignatzorin/lexsuite-backend/internal/clock"
	"github.com/ignatzorin/lexsuite-backend/internal/config"
	"github.com/ignatzorin/lexsuite-backend/internal/db"
	httpRouter "github.com/ignatzorin/lexsuite-backend/internal/http/router"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/delivery"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/lexsuite-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/lexsuite-backend/internal/interface/http/handler"
	"github.com/ignatzorin/lexsuite-backend/internal/logger"
	"github.com/ignatzorin/lexsuite-backend/internal/scheduler"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
	"github.com/ignatzorin/lexsuite-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	// Хранилище.
	var (
		store  app.Storage
		pinger handler.Pinger
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Log.Warn("main: данные хранятся в памяти и пропадут при перезапуске")
		store = memory.NewStore()
	default:
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolOptions())
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
		}
		defer safeClose(dbConn)

		if _, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка миграций")
		}
		pg := persistence.NewPostgres(dbConn)
		store, pinger = pg, pg
	}

	templates, found, err := escalation.LoadDefaults(cfg.Escalation.DefaultsPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось прочитать политики эскалации по умолчанию")
	}
	if !found {
		logger.Log.WithField("path", cfg.Escalation.DefaultsPath).Warn("main: файл политик не найден, используются встроенные")
	}

	cache := service.NewCacheService(cfg.Escalation.PolicyCacheTTL)
	defer cache.Close()

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	application := app.New(store, app.Options{
		Clock:          clock.Real(),
		Deliverer:      delivery.NewRouter(hub),
		Cache:          cache,
		PolicyCacheTTL: cfg.Escalation.PolicyCacheTTL,
		Templates:      templates,
		Job: escalation.JobConfig{
			TenantConcurrency: cfg.Scheduler.TenantConcurrency,
			AdminFallback:     cfg.Escalation.AdminFallback,
		},
	})

	// Плановый пересчёт.
	var sched *scheduler.RecomputeScheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(application.Job, scheduler.Config{
			Spec:    cfg.Scheduler.Cron,
			Timeout: cfg.Scheduler.Timeout,
		})
		if err := sched.Start(); err != nil {
			logger.Log.WithError(err).Fatal("main: не удалось запустить планировщик")
		}
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		tokenManager,
		handler.NewHealthHandler(pinger, application.Clock),
		handler.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		application.KeyDateHandler(),
		application.DirectionHandler(),
		application.CalendarHandler(),
		application.NotificationHandler(),
		application.PolicyHandler(),
		application.EscalationHandler(),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if sched != nil {
			sched.Stop(shutdownCtx)
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"port":    cfg.HTTPPort,
		"storage": cfg.StorageDriver,
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
