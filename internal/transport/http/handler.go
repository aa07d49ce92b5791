package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"newsagg/internal/domain"
	"newsagg/internal/usecase"
	"newsagg/internal/worker"
	"strconv"
)

type articleQuerier interface {
	List(ctx context.Context, page int, author, category string) ([]domain.Article, usecase.Pagination, error)
	Get(ctx context.Context, id int) (*domain.Article, error)
	Authors(ctx context.Context) ([]string, error)
}

type ingestTrigger interface {
	Trigger() error
	Status() domain.RunStatus
}

type Handler struct {
	log        *slog.Logger
	articles   articleQuerier
	trigger    ingestTrigger
	cronSecret string
}

func NewHandler(log *slog.Logger, articles articleQuerier, trigger ingestTrigger, cronSecret string) *Handler {
	return &Handler{
		log:        log,
		articles:   articles,
		trigger:    trigger,
		cronSecret: cronSecret,
	}
}

// listArticles - хендлер для эндпоинта GET /api/articles.
// Параметры запроса: page, author, category.
func (h *Handler) listArticles(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/listArticles"
	log := h.log.With(slog.String("op", op))
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			log.Warn("invalid page parameter", slog.String("page", pageStr))
			respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter")
			return
		}
	}
	author := r.URL.Query().Get("author")
	category := r.URL.Query().Get("category")

	articles, pagination, err := h.articles.List(r.Context(), page, author, category)
	if err != nil {
		log.Error("Failed to list articles", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"articles":   articles,
		"pagination": pagination,
		"filters": map[string]string{
			"author":   author,
			"category": category,
		},
	})
}

// getArticle - хендлер для эндпоинта GET /api/articles/{id}.
func (h *Handler) getArticle(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getArticle"
	log := h.log.With(slog.String("op", op))
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid article id")
		return
	}
	article, err := h.articles.Get(r.Context(), id)
	if err != nil {
		log.Error("Failed to get article", slog.Int("id", id), slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if article == nil {
		respondWithError(w, http.StatusNotFound, "Article not found")
		return
	}
	respondWithJSON(w, http.StatusOK, article)
}

// listAuthors - хендлер для эндпоинта GET /api/authors.
func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/listAuthors"
	log := h.log.With(slog.String("op", op))
	authors, err := h.articles.Authors(r.Context())
	if err != nil {
		log.Error("Failed to list authors", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if authors == nil {
		authors = []string{}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"authors": authors})
}

// triggerFetch - хендлер для эндпоинта /cron/fetch.
// Запускает инжест в фоне и сразу отвечает вызывающей стороне; результат
// запуска наблюдаем только через /api/status. Доступ защищен общим
// секретом, передаваемым в параметре token.
func (h *Handler) triggerFetch(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/triggerFetch"
	log := h.log.With(slog.String("op", op))
	token := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
		log.Warn("unauthorized fetch trigger", slog.String("remote_addr", r.RemoteAddr))
		respondWithError(w, http.StatusForbidden, "Unauthorized")
		return
	}
	if err := h.trigger.Trigger(); err != nil {
		if errors.Is(err, worker.ErrAlreadyRunning) {
			respondWithJSON(w, http.StatusConflict, map[string]string{"status": "already_running"})
			return
		}
		log.Error("Failed to trigger ingestion", slog.Any("error", err))
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	log.Info("Ingestion triggered via API")
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// getStatus - хендлер для эндпоинта GET /api/status.
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.trigger.Status())
}

// healthCheck - хендлер для проверки состояния сервиса.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
