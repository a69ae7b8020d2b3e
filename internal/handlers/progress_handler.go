// internal/handlers/progress_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/service"
	"go_5_lucid_keep/internal/webutil"
)

type ProgressHandler struct {
	service service.ProgressService
	logger  *slog.Logger
}

func NewProgressHandler(s service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		service: s,
		logger:  logger,
	}
}

// GetMetrics は日別の進捗集計一覧を取得するためのハンドラ。
// クエリパラメータ timeRange (week|month|year, 省略時は全期間) で期間を指定する。
func (h *ProgressHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMetrics"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	timeRange := r.URL.Query().Get("timeRange")
	metrics, err := h.service.ListMetrics(r.Context(), userID, timeRange)
	if err != nil {
		logger.Error("Error listing metrics in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if metrics == nil {
		metrics = []*model.ProgressMetric{}
	}
	logger.Info("Metrics listed successfully", slog.Int("count", len(metrics)))
	webutil.RespondWithJSON(w, http.StatusOK, metrics, logger)
}

// GetSummary は期間全体の合計・平均を取得するためのハンドラ
func (h *ProgressHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSummary"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	timeRange := r.URL.Query().Get("timeRange")
	summary, err := h.service.GetSummary(r.Context(), userID, timeRange)
	if err != nil {
		logger.Error("Error getting summary in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Summary retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}

// GetStreak は現在・最長の連続日数を取得するためのハンドラ
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStreak"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	streak, err := h.service.GetStreak(r.Context(), userID, time.Now())
	if err != nil {
		logger.Error("Error getting streak in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Streak retrieved successfully", slog.Int("current", streak.Current), slog.Int("longest", streak.Longest))
	webutil.RespondWithJSON(w, http.StatusOK, streak, logger)
}
