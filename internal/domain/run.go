package domain

import "time"

// RunState описывает текущее состояние пайплайна инжеста.
type RunState string

const (
	RunStateIdle    RunState = "idle"
	RunStateRunning RunState = "running"
	RunStateSuccess RunState = "success"
	RunStateError   RunState = "error"
)

// RunResult содержит итог одного запуска пайплайна.
type RunResult struct {
	FeedsProcessed int `json:"feeds_processed"`
	FeedErrors     int `json:"feed_errors"`
	ArticlesStored int `json:"articles_stored"`
}

// RunStatus — дескриптор статуса, доступный внешним клиентам через API.
// Обновляется только исполнителем запусков при смене фазы.
type RunStatus struct {
	State          RunState   `json:"state"`
	Message        string     `json:"message,omitempty"`
	LastRun        *time.Time `json:"last_run,omitempty"`
	FeedsProcessed int        `json:"feeds_processed"`
	ArticlesStored int        `json:"articles_stored"`
}
