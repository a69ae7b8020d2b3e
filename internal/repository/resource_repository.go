//go:generate mockery --name ResourceRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	Create(ctx context.Context, db *gorm.DB, resource *model.AudioResource) error
	FindByID(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) (*model.AudioResource, error)
	List(ctx context.Context, db *gorm.DB, category string) ([]*model.AudioResource, error)
	Update(ctx context.Context, db *gorm.DB, resource *model.AudioResource) error
	Delete(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) error
}

type gormResourceRepository struct{}

func NewGormResourceRepository() ResourceRepository {
	return &gormResourceRepository{}
}

func (r *gormResourceRepository) Create(ctx context.Context, db *gorm.DB, resource *model.AudioResource) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(resource)
	if result.Error != nil {
		logger.Error("Error creating audio resource in DB", "error", result.Error)
		return fmt.Errorf("gormResourceRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormResourceRepository) FindByID(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) (*model.AudioResource, error) {
	logger := middleware.GetLogger(ctx)
	var resource model.AudioResource

	result := db.WithContext(ctx).Where("resource_id = ?", resourceID).First(&resource)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding audio resource in DB",
			"error", result.Error,
			"resource_id", resourceID.String(),
		)
		return nil, fmt.Errorf("gormResourceRepository.FindByID: %w", result.Error)
	}
	return &resource, nil
}

// List はタイトル昇順で全リソースを返します。categoryが空または"all"以外の場合は種別で絞り込む。
func (r *gormResourceRepository) List(ctx context.Context, db *gorm.DB, category string) ([]*model.AudioResource, error) {
	logger := middleware.GetLogger(ctx)
	var resources []*model.AudioResource

	query := db.WithContext(ctx)
	if category != "" && category != "all" {
		query = query.Where("protocol_type = ?", category)
	}
	result := query.Order("title ASC").Find(&resources)
	if result.Error != nil {
		logger.Error("Error listing audio resources in DB", "error", result.Error)
		return nil, fmt.Errorf("gormResourceRepository.List: %w", result.Error)
	}
	return resources, nil
}

func (r *gormResourceRepository) Update(ctx context.Context, db *gorm.DB, resource *model.AudioResource) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Save(resource)
	if result.Error != nil {
		logger.Error(
			"Error updating audio resource in DB",
			"error", result.Error,
			"resource_id", resource.ResourceID.String(),
		)
		return fmt.Errorf("gormResourceRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormResourceRepository) Delete(ctx context.Context, db *gorm.DB, resourceID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Where("resource_id = ?", resourceID).Delete(&model.AudioResource{})
	if result.Error != nil {
		logger.Error(
			"Error deleting audio resource in DB",
			"error", result.Error,
			"resource_id", resourceID.String(),
		)
		return fmt.Errorf("gormResourceRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
