package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"newsagg/internal/adapter/extractor"
	"newsagg/internal/adapter/fetcher"
	"newsagg/internal/adapter/parser"
	"newsagg/internal/config"
	"newsagg/internal/logger"
	"newsagg/internal/migrations"
	server "newsagg/internal/transport/http"
	"newsagg/internal/usecase"
	"newsagg/internal/worker"
	"newsagg/storage"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App представляет основное приложение сервиса агрегации новостей.
// Координирует работу всех компонентов: HTTP-сервера, воркера инжеста,
// базы данных и системы логирования. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	dbPool   *pgxpool.Pool
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует новый экземпляр приложения.
// Выполняет настройку логгера, подключение к базе данных, применение миграций
// и сборку всех зависимостей. Возвращает ошибку при сбое любой из процедур.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(context.Background()); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := migrations.Apply(context.Background(), appLogger, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	dbStorage := storage.NewPostgresArticleDB(dbPool, appLogger)

	httpFetcher := fetcher.NewHTTPFetcher(nil, appLogger)

	feedParser := parser.NewFeedParser(appLogger)

	contentExtractor := extractor.NewReadabilityExtractor(httpFetcher, cfg.App.ExtractTimeoutDuration(), appLogger)

	ingest := usecase.NewIngestUseCase(
		httpFetcher,
		feedParser,
		contentExtractor,
		dbStorage,
		cfg.App.FeedTimeoutDuration(),
		appLogger,
	)

	articleQuery := usecase.NewArticleQueryUseCase(dbStorage, cfg.App.ArticlesPerPage)

	ingestWorker := worker.New(ingest, cfg.App.RunTimeoutDuration(), appLogger)

	handler := server.NewHandler(appLogger, articleQuery, ingestWorker, cfg.App.CronSecret)

	router := server.NewServer(appLogger, handler)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		server:   httpServer,
		worker:   ingestWorker,
		dbPool:   dbPool,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// Run запускает приложение: HTTP-сервер и обработку сигналов завершения.
// Инжест запускается только по внешнему триггеру через /cron/fetch.
// Метод блокируется до получения сигнала завершения.
func (a *App) Run() error {
	a.logger.Info("Starting news aggregation service",
		slog.String("component", "app"),
		slog.String("address", a.server.Addr),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer listener.Close()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-a.stopChan
	a.logger.Info("Shutdown signal received",
		slog.String("component", "app"),
		slog.String("signal", sig.String()),
	)
	return a.Shutdown()
}

// Shutdown выполняет graceful shutdown приложения.
// Дожидается завершения текущего запуска инжеста, останавливает HTTP-сервер
// и закрывает соединение с БД.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown")
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	if a.dbPool != nil {
		a.dbPool.Close()
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully")
	return nil
}
