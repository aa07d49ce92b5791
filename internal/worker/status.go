package worker

import (
	"newsagg/internal/domain"
	"sync"
	"time"
)

// StatusTracker — контейнер статуса запусков с явными переходами состояний:
// idle → running → {success, error} → running → ...
// При старте процесса статус сбрасывается в idle. Мутация возможна только
// через методы переходов, читатели получают копию через Snapshot.
type StatusTracker struct {
	mu     sync.Mutex
	status domain.RunStatus
	now    func() time.Time
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		status: domain.RunStatus{State: domain.RunStateIdle},
		now:    time.Now,
	}
}

// TryStart атомарно переводит статус в running.
// Возвращает false, если запуск уже идет: взаимное исключение запусков.
func (t *StatusTracker) TryStart() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State == domain.RunStateRunning {
		return false
	}
	t.status.State = domain.RunStateRunning
	t.status.Message = ""
	return true
}

// Succeed фиксирует успешное завершение запуска и его итоги.
func (t *StatusTracker) Succeed(result *domain.RunResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	finished := t.now()
	t.status.State = domain.RunStateSuccess
	t.status.Message = ""
	t.status.LastRun = &finished
	t.status.FeedsProcessed = result.FeedsProcessed
	t.status.ArticlesStored = result.ArticlesStored
}

// Fail фиксирует неудачное завершение запуска с причиной.
func (t *StatusTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	finished := t.now()
	t.status.State = domain.RunStateError
	t.status.Message = err.Error()
	t.status.LastRun = &finished
	t.status.FeedsProcessed = 0
	t.status.ArticlesStored = 0
}

// Snapshot возвращает копию текущего дескриптора статуса.
func (t *StatusTracker) Snapshot() domain.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}
