package worker

import (
	"context"
	"errors"
	"log/slog"
	"newsagg/internal/domain"
	"sync"
	"time"
)

// ErrAlreadyRunning возвращается при попытке запустить инжест,
// пока предыдущий запуск еще не завершился.
var ErrAlreadyRunning = errors.New("ingestion already running")

// IngestRunner определяет интерфейс пайплайна инжеста для воркера.
type IngestRunner interface {
	Run(ctx context.Context) (*domain.RunResult, error)
}

// Worker исполняет запуски пайплайна в фоне и владеет их статусом.
// Взаимное исключение запусков обязательно: каждый запуск выполняет
// разрушительную очистку таблицы, поэтому второй одновременный запуск
// отклоняется, а не ставится в очередь.
type Worker struct {
	runner     IngestRunner
	status     *StatusTracker
	runTimeout time.Duration
	log        *slog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// New создает нового воркера исполнения запусков инжеста.
func New(runner IngestRunner, runTimeout time.Duration, log *slog.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		runner:     runner,
		status:     NewStatusTracker(),
		runTimeout: runTimeout,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Trigger запускает пайплайн в отдельной горутине и сразу возвращает
// управление вызывающей стороне. Если запуск уже идет, возвращает
// ErrAlreadyRunning без каких-либо изменений состояния.
func (w *Worker) Trigger() error {
	if !w.status.TryStart() {
		return ErrAlreadyRunning
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runOnce()
	}()
	return nil
}

// Status возвращает снимок текущего дескриптора статуса.
func (w *Worker) Status() domain.RunStatus {
	return w.status.Snapshot()
}

// Stop отменяет контекст воркера и дожидается завершения текущего запуска.
func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

// runOnce выполняет один запуск пайплайна и фиксирует его исход в статусе.
func (w *Worker) runOnce() {
	start := time.Now()
	log := w.log.With(slog.String("component", "worker"))
	log.Info("Ingestion run triggered")

	opCtx, opCancel := context.WithTimeout(w.ctx, w.runTimeout)
	defer opCancel()
	result, err := w.runner.Run(opCtx)
	if err != nil {
		w.status.Fail(err)
		log.Error("Ingestion run failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)),
		)
		return
	}
	w.status.Succeed(result)
	log.Info("Ingestion run finished",
		slog.Int("feeds_processed", result.FeedsProcessed),
		slog.Int("articles_stored", result.ArticlesStored),
		slog.Duration("duration", time.Since(start)),
	)
}
