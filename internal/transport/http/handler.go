package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"situationroom/internal/domain"
	"situationroom/internal/usecase"

	"github.com/dustin/go-humanize"
)

type newsService interface {
	GetNews(ctx context.Context) usecase.NewsSnapshot
	GetSituations(ctx context.Context) []domain.SituationReport
	GetAffectedAssets(ctx context.Context) []domain.TickerMatch
}

// Handler обслуживает HTTP API новостей, ситуаций и затронутых инструментов.
type Handler struct {
	log  *slog.Logger
	news newsService
	now  func() time.Time
}

// NewHandler создает обработчик поверх сервиса новостей.
func NewHandler(log *slog.Logger, news newsService) *Handler {
	return &Handler{
		log:  log,
		news: news,
		now:  time.Now,
	}
}

// situationView - отчёт по ситуации с человекочитаемым возрастом последнего заголовка.
type situationView struct {
	domain.SituationReport
	Age string `json:"age"`
}

// getNews - хендлер для эндпоинта GET /api/news.
// Всегда отвечает 200: при полном отказе источников категории пусты,
// а при наличии предыдущих данных они отдаются с признаком stale.
func (h *Handler) getNews(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getNews"
	log := h.requestLogger(r, op)
	if !allowGet(w, r, log) {
		return
	}
	snap := h.news.GetNews(r.Context())
	if snap.Stale {
		log.Warn("serving stale news", slog.Int("errors", snap.FailedSources))
	}
	respondWithJSON(w, http.StatusOK, snap)
}

// getSituations - хендлер для эндпоинта GET /api/situations
func (h *Handler) getSituations(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getSituations"
	log := h.requestLogger(r, op)
	if !allowGet(w, r, log) {
		return
	}
	reports := h.news.GetSituations(r.Context())
	now := h.now()
	views := make([]situationView, 0, len(reports))
	for _, rep := range reports {
		views = append(views, situationView{
			SituationReport: rep,
			Age:             humanize.RelTime(rep.LastUpdated, now, "ago", "from now"),
		})
	}
	respondWithJSON(w, http.StatusOK, views)
}

// getAffectedAssets - хендлер для эндпоинта GET /api/affected-assets
func (h *Handler) getAffectedAssets(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getAffectedAssets"
	log := h.requestLogger(r, op)
	if !allowGet(w, r, log) {
		return
	}
	matches := h.news.GetAffectedAssets(r.Context())
	if matches == nil {
		matches = []domain.TickerMatch{}
	}
	respondWithJSON(w, http.StatusOK, matches)
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requestLogger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
}

func allowGet(w http.ResponseWriter, r *http.Request, log *slog.Logger) bool {
	if r.Method == http.MethodGet {
		return true
	}
	log.Warn("method not allowed", slog.String("method", r.Method))
	w.Header().Set("Allow", http.MethodGet)
	respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	return false
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
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
