package http

import (
	"log/slog"
	"net/http"
)

// NewServer создает и настраивает HTTP-роутер API с middleware
// для идентификации запросов, логирования и CORS.
func NewServer(log *slog.Logger, h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/news", h.getNews)
	mux.HandleFunc("/api/situations", h.getSituations)
	mux.HandleFunc("/api/affected-assets", h.getAffectedAssets)
	mux.HandleFunc("/api/health", h.healthCheck)
	var handler http.Handler = mux
	handler = loggingMiddleware(log)(handler)
	handler = requestIDMiddleware()(handler)
	handler = corsMiddleware()(handler)
	return handler
}
