// internal/handlers/journal_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/service"
	"go_5_lucid_keep/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type JournalHandler struct {
	service service.JournalService
	logger  *slog.Logger
}

func NewJournalHandler(s service.JournalService, logger *slog.Logger) *JournalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalHandler{
		service: s,
		logger:  logger,
	}
}

// PostJournal は新しい夢日記エントリを作成するためのハンドラ
func (h *JournalHandler) PostJournal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostJournal"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.PostJournalRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			appErr := webutil.NewValidationErrorResponse(validationErrors)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	entry, err := h.service.CreateEntry(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating journal entry in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Journal entry posted successfully", slog.String("dream_id", entry.DreamID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, entry, logger)
}

// GetJournals は夢日記エントリの一覧を取得するためのハンドラ
func (h *JournalHandler) GetJournals(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetJournals"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	entries, err := h.service.ListEntries(r.Context(), userID)
	if err != nil {
		logger.Error("Error listing journal entries in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if entries == nil {
		entries = []*model.DreamJournal{}
	}
	logger.Info("Journal entries listed successfully", slog.Int("count", len(entries)))
	webutil.RespondWithJSON(w, http.StatusOK, entries, logger)
}

// GetJournal は特定の夢日記エントリを取得するためのハンドラ
func (h *JournalHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetJournal"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	dreamID, ok := parseUUIDParam(w, r, logger, "dream_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("dream_id", dreamID.String()))

	entry, err := h.service.GetEntry(r.Context(), userID, dreamID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Journal entry not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting journal entry from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Journal entry retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, entry, logger)
}

// PutJournal は特定の夢日記エントリを完全に置き換えるためのハンドラ
func (h *JournalHandler) PutJournal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutJournal"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	dreamID, ok := parseUUIDParam(w, r, logger, "dream_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("dream_id", dreamID.String()))

	var req model.PutJournalRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.Any("errors", validationErrors.Error()))
			appErr := webutil.NewValidationErrorResponse(validationErrors)
			webutil.HandleError(w, logger, appErr)
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	entry, err := h.service.UpdateEntry(r.Context(), userID, dreamID, &req)
	if err != nil {
		logger.Error("Error updating journal entry in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Journal entry updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, entry, logger)
}

// DeleteJournal は特定の夢日記エントリを削除するためのハンドラ
func (h *JournalHandler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteJournal"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	dreamID, ok := parseUUIDParam(w, r, logger, "dream_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("dream_id", dreamID.String()))

	if err := h.service.DeleteEntry(r.Context(), userID, dreamID); err != nil {
		logger.Error("Error deleting journal entry in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Journal entry deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

// parseUUIDParam はURLパラメータをUUIDとして解析します。失敗時はレスポンス済み
func parseUUIDParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.Warn("Invalid ID format in URL", slog.String("param", name), slog.String("value", idStr), slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_URL_PARAM", name+"の形式が正しくありません。", name, model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return id, true
}
