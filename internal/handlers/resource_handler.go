// internal/handlers/resource_handler.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/service"
	"go_5_lucid_keep/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type ResourceHandler struct {
	service service.ResourceService
	logger  *slog.Logger
}

func NewResourceHandler(s service.ResourceService, logger *slog.Logger) *ResourceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceHandler{
		service: s,
		logger:  logger,
	}
}

// GetResources は音声リソース一覧を取得するためのハンドラ (認証不要)。
// クエリパラメータ category でプロトコル種別を絞り込める ("all"または省略で全件)。
func (h *ResourceHandler) GetResources(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetResources"))

	category := r.URL.Query().Get("category")
	resources, err := h.service.ListResources(r.Context(), category)
	if err != nil {
		logger.Error("Error listing resources in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if resources == nil {
		resources = []*model.AudioResource{}
	}
	logger.Info("Resources listed successfully", slog.Int("count", len(resources)))
	webutil.RespondWithJSON(w, http.StatusOK, resources, logger)
}

// GetResource は特定の音声リソースを取得するためのハンドラ (認証不要)
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetResource"))

	resourceID, ok := parseUUIDParam(w, r, logger, "resource_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("resource_id", resourceID.String()))

	resource, err := h.service.GetResource(r.Context(), resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Resource not found in service", slog.Any("error", err))
		} else {
			logger.Error("Error getting resource from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Resource retrieved successfully")
	webutil.RespondWithJSON(w, http.StatusOK, resource, logger)
}

// PostResource は音声リソースを登録するためのハンドラ (管理者のみ)
func (h *ResourceHandler) PostResource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PostResource"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.PostResourceRequest
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

	resource, err := h.service.CreateResource(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error creating resource in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Resource posted successfully", slog.String("resource_id", resource.ResourceID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, resource, logger)
}

// PutResource は音声リソースを完全に置き換えるためのハンドラ (管理者のみ)
func (h *ResourceHandler) PutResource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "PutResource"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	resourceID, ok := parseUUIDParam(w, r, logger, "resource_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("resource_id", resourceID.String()))

	var req model.PutResourceRequest
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

	resource, err := h.service.UpdateResource(r.Context(), userID, resourceID, &req)
	if err != nil {
		logger.Error("Error updating resource in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Resource updated successfully")
	webutil.RespondWithJSON(w, http.StatusOK, resource, logger)
}

// DeleteResource は音声リソースを削除するためのハンドラ (管理者のみ)
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteResource"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "認証情報が見つかりません。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	resourceID, ok := parseUUIDParam(w, r, logger, "resource_id")
	if !ok {
		return
	}
	logger = logger.With(slog.String("resource_id", resourceID.String()))

	if err := h.service.DeleteResource(r.Context(), userID, resourceID); err != nil {
		logger.Error("Error deleting resource in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Resource deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}
