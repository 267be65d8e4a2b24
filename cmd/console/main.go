package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TharHtet236401/cyber-security/internal/analytics"
	"github.com/TharHtet236401/cyber-security/internal/audit"
	"github.com/TharHtet236401/cyber-security/internal/console/handler"
	"github.com/TharHtet236401/cyber-security/internal/console/server"
	"github.com/TharHtet236401/cyber-security/internal/console/service"
	"github.com/TharHtet236401/cyber-security/internal/dataset"
	"github.com/TharHtet236401/cyber-security/internal/geo"
	"github.com/TharHtet236401/cyber-security/internal/infra"
	"github.com/TharHtet236401/cyber-security/internal/infra/auth"
	"github.com/TharHtet236401/cyber-security/internal/repository/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Датасет: грузится один раз, дальше только чтение.
	// Ошибка схемы фатальна — сервис с битым датасетом не стартует.
	dataPath := cfg.Dataset.Path
	if cfg.Dataset.GeoPath != "" {
		dataPath = cfg.Dataset.GeoPath // geo-вариант с колонками координат
	}
	catalog, err := dataset.LoadCSV(dataPath)
	if err != nil {
		logger.Fatal("dataset load failed", zap.String("path", dataPath), zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.String("path", dataPath),
		zap.Int("rows", catalog.Len()),
		zap.Bool("geo", catalog.HasGeo()))

	// 3. Инфраструктура: Postgres (пользователи, аудит) и Redis (кэш)
	if cfg.Database.URL == "" {
		logger.Fatal("database.url (DATABASE_URL) is required")
	}
	userRepo := postgres.NewUserRepo(cfg.Database.URL)
	auditRepo := postgres.NewAuditRepo(cfg.Database.URL)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := auditRepo.Ping(pingCtx); err != nil {
		logger.Fatal("database unreachable", zap.Error(err))
	}
	cancelPing()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 4. Ключи RS256: консоль и подписывает, и проверяет токены
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		logger.Fatal("failed to parse private key", zap.Error(err))
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		logger.Fatal("failed to parse public key", zap.Error(err))
	}
	validator := auth.NewBaseValidator(publicKey)

	// 5. Метрики на отдельном порту
	reg := prometheus.NewRegistry()
	metrics := analytics.NewMetrics(reg)
	metrics.DatasetRows.Set(float64(catalog.Len()))

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		logger.Info("metrics endpoint started", zap.String("addr", addr))
		log.Fatal(http.ListenAndServe(addr, mux))
	}()

	// 6. Журнал запросов: асинхронные пакетные записи в Postgres
	trail := audit.NewTrail(auditRepo, cfg.Engine.AuditBufferSize, logger)
	trail.Start()

	// 7. Геокодер нужен только когда датасет без координат
	var geocoder *geo.Geocoder
	if !catalog.HasGeo() && cfg.Engine.GeocoderURL != "" {
		geocoder = geo.NewGeocoder(cfg.Engine.GeocoderURL, cfg.Engine.GeocoderTimeout, rdb, logger)
	}

	// 8. Слои (Dependency Injection)
	dashService := service.NewDashboardService(catalog, rdb, geocoder, metrics, trail, cfg.Engine, logger)
	authService := service.NewAuthService(userRepo, privateKey, cfg.Auth.TokenTTL)
	auditService := service.NewAuditService(auditRepo)

	srvHandler := server.NewConsoleServer(
		cfg,
		logger,
		validator,
		handler.NewAuthHandler(authService),
		handler.NewDashboardHandler(dashService),
		handler.NewAuditHandler(auditService),
	)

	// 9. Warm-up вселенных измерений в Redis (не блокирует старт)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := dashService.WarmupDimensions(ctx); err != nil {
			logger.Warn("dimension warm-up failed", zap.Error(err))
		}
	}()

	// 10. HTTP Server + Graceful Shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srvHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console API stopping...")

	// Даем 5 секунд на завершение запросов, потом дожимаем буфер аудита
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	trail.Stop()
	logger.Info("console API exited properly")
}
