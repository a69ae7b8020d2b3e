//go:generate mockery --name MetricRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetricRepository interface {
	Create(ctx context.Context, db *gorm.DB, metric *model.ProgressMetric) error
	Update(ctx context.Context, db *gorm.DB, metric *model.ProgressMetric) error
	FindByUserAndDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.ProgressMetric, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, since *time.Time) ([]*model.ProgressMetric, error)
	SummarizeByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, since *time.Time) (*model.ProgressSummary, error)
	// ListActiveDates は練習時間または明晰夢が記録された日付を降順で返します
	ListActiveDates(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]time.Time, error)
}

type gormMetricRepository struct{}

func NewGormMetricRepository() MetricRepository {
	return &gormMetricRepository{}
}

func (r *gormMetricRepository) Create(ctx context.Context, db *gorm.DB, metric *model.ProgressMetric) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(metric)
	if result.Error != nil {
		logger.Error(
			"Error creating progress metric in DB",
			"error", result.Error,
			"user_id", metric.UserID.String(),
		)
		return fmt.Errorf("gormMetricRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormMetricRepository) Update(ctx context.Context, db *gorm.DB, metric *model.ProgressMetric) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Save(metric)
	if result.Error != nil {
		logger.Error(
			"Error updating progress metric in DB",
			"error", result.Error,
			"metric_id", metric.MetricID.String(),
		)
		return fmt.Errorf("gormMetricRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormMetricRepository) FindByUserAndDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.ProgressMetric, error) {
	logger := middleware.GetLogger(ctx)
	var metric model.ProgressMetric

	day := model.DateOnly(date).Format("2006-01-02")
	result := db.WithContext(ctx).
		Where("user_id = ? AND DATE(date) = DATE(?)", userID, day).
		First(&metric)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding progress metric in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"date", day,
		)
		return nil, fmt.Errorf("gormMetricRepository.FindByUserAndDate: %w", result.Error)
	}
	return &metric, nil
}

func (r *gormMetricRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, since *time.Time) ([]*model.ProgressMetric, error) {
	logger := middleware.GetLogger(ctx)
	var metrics []*model.ProgressMetric

	query := db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("date >= ?", model.DateOnly(*since))
	}
	result := query.Order("date ASC").Find(&metrics)
	if result.Error != nil {
		logger.Error("Error listing progress metrics in DB", "error", result.Error)
		return nil, fmt.Errorf("gormMetricRepository.ListByUser: %w", result.Error)
	}
	return metrics, nil
}

func (r *gormMetricRepository) SummarizeByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID, since *time.Time) (*model.ProgressSummary, error) {
	logger := middleware.GetLogger(ctx)
	var summary model.ProgressSummary

	query := db.WithContext(ctx).
		Model(&model.ProgressMetric{}).
		Select(
			"COALESCE(SUM(lucid_dreams), 0) AS total_lucid_dreams, " +
				"COALESCE(SUM(practice_minutes), 0) AS total_practice_minutes, " +
				"COALESCE(AVG(consistency_score), 0) AS average_consistency").
		Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("date >= ?", model.DateOnly(*since))
	}
	result := query.Scan(&summary)
	if result.Error != nil {
		logger.Error("Error summarizing progress metrics in DB", "error", result.Error)
		return nil, fmt.Errorf("gormMetricRepository.SummarizeByUser: %w", result.Error)
	}
	return &summary, nil
}

func (r *gormMetricRepository) ListActiveDates(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]time.Time, error) {
	logger := middleware.GetLogger(ctx)
	var dates []time.Time

	result := db.WithContext(ctx).
		Model(&model.ProgressMetric{}).
		Where("user_id = ? AND (practice_minutes > 0 OR lucid_dreams > 0)", userID).
		Order("date DESC").
		Pluck("date", &dates)
	if result.Error != nil {
		logger.Error("Error listing active dates in DB", "error", result.Error)
		return nil, fmt.Errorf("gormMetricRepository.ListActiveDates: %w", result.Error)
	}
	return dates, nil
}
