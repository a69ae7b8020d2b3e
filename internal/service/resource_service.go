package service

import (
	"context"
	"errors"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceService interface {
	ListResources(ctx context.Context, category string) ([]*model.AudioResource, error)
	GetResource(ctx context.Context, resourceID uuid.UUID) (*model.AudioResource, error)
	CreateResource(ctx context.Context, userID uuid.UUID, req *model.PostResourceRequest) (*model.AudioResource, error)
	UpdateResource(ctx context.Context, userID, resourceID uuid.UUID, req *model.PutResourceRequest) (*model.AudioResource, error)
	DeleteResource(ctx context.Context, userID, resourceID uuid.UUID) error
}

type resourceService struct {
	db           *gorm.DB
	resourceRepo repository.ResourceRepository
	userRepo     repository.UserRepository
}

func NewResourceService(db *gorm.DB, resourceRepo repository.ResourceRepository, userRepo repository.UserRepository) ResourceService {
	return &resourceService{
		db:           db,
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
	}
}

// ListResources はカテゴリでフィルタした音声リソース一覧を返します (認証不要)
func (s *resourceService) ListResources(ctx context.Context, category string) ([]*model.AudioResource, error) {
	resources, err := s.resourceRepo.List(ctx, s.db, category)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソース一覧の取得に失敗しました。", "", err)
	}
	return resources, nil
}

func (s *resourceService) GetResource(ctx context.Context, resourceID uuid.UUID) (*model.AudioResource, error) {
	resource, err := s.resourceRepo.FindByID(ctx, s.db, resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("RESOURCE_NOT_FOUND", "指定された音声リソースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソースの取得に失敗しました。", "", err)
	}
	return resource, nil
}

// CreateResource は管理者のみが実行できます
func (s *resourceService) CreateResource(ctx context.Context, userID uuid.UUID, req *model.PostResourceRequest) (*model.AudioResource, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	resource := &model.AudioResource{
		ResourceID:      uuid.New(),
		Title:           req.Title,
		Description:     req.Description,
		ProtocolType:    req.ProtocolType,
		DurationSeconds: req.DurationSeconds,
		FilePath:        req.FilePath,
	}
	if err := s.resourceRepo.Create(ctx, s.db, resource); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソースの作成に失敗しました。", "", err)
	}

	logger.Info("Audio resource created", "resource_id", resource.ResourceID, "user_id", userID)
	return resource, nil
}

func (s *resourceService) UpdateResource(ctx context.Context, userID, resourceID uuid.UUID, req *model.PutResourceRequest) (*model.AudioResource, error) {
	logger := middleware.GetLogger(ctx)

	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	resource, err := s.resourceRepo.FindByID(ctx, s.db, resourceID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("RESOURCE_NOT_FOUND", "指定された音声リソースが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソースの取得に失敗しました。", "", err)
	}

	resource.Title = req.Title
	resource.Description = req.Description
	resource.ProtocolType = req.ProtocolType
	resource.DurationSeconds = req.DurationSeconds
	resource.FilePath = req.FilePath

	if err := s.resourceRepo.Update(ctx, s.db, resource); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソースの更新に失敗しました。", "", err)
	}

	logger.Info("Audio resource updated", "resource_id", resourceID, "user_id", userID)
	return resource, nil
}

func (s *resourceService) DeleteResource(ctx context.Context, userID, resourceID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}

	if err := s.resourceRepo.Delete(ctx, s.db, resourceID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("RESOURCE_NOT_FOUND", "指定された音声リソースが見つかりません。", "", model.ErrNotFound)
		}
		return model.NewAppError("INTERNAL_SERVER_ERROR", "音声リソースの削除に失敗しました。", "", err)
	}

	logger.Info("Audio resource deleted", "resource_id", resourceID, "user_id", userID)
	return nil
}

// requireAdmin は対象ユーザーが管理者であることを確認します
func (s *resourceService) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	if !user.IsAdmin {
		logger.Warn("Non-admin user attempted resource write", "user_id", userID.String())
		return model.NewAppError("FORBIDDEN", "この操作には管理者権限が必要です。", "", model.ErrForbidden)
	}
	return nil
}
