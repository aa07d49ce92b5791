package http

import (
	"log/slog"
	"net/http"
)

// NewServer создает и настраивает HTTP-маршрутизатор сервиса.
// Регистрирует эндпоинты API, эндпоинт ручного запуска инжеста
// и middleware для логирования и CORS.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/articles", h.listArticles)
	mux.HandleFunc("GET /api/articles/{id}", h.getArticle)
	mux.HandleFunc("GET /api/authors", h.listAuthors)
	mux.HandleFunc("GET /api/status", h.getStatus)
	mux.HandleFunc("GET /api/health", h.healthCheck)
	mux.HandleFunc("/cron/fetch", h.triggerFetch)
	mux.HandleFunc("/cron/fetch/{$}", h.triggerFetch)
	var handler http.Handler = mux
	handler = loggingMiddleware(log)(handler)
	handler = corsMiddleware()(handler)
	return handler
}

// corsMiddleware создает middleware для обработки CORS.
// Разрешает запросы с любого origin и обрабатывает preflight OPTIONS запросы.
func corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
