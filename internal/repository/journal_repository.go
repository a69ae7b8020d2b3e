//go:generate mockery --name JournalRepository --output ./mocks --outpkg mocks --case=underscore
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

type JournalRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *model.DreamJournal) error // トランザクション対応
	FindByID(ctx context.Context, db *gorm.DB, userID, dreamID uuid.UUID) (*model.DreamJournal, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.DreamJournal, error)
	Update(ctx context.Context, tx *gorm.DB, entry *model.DreamJournal) error
	Delete(ctx context.Context, tx *gorm.DB, userID, dreamID uuid.UUID) error
	ReplaceTags(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, tags []string) error
	CountLucidByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (int, error)
}

type gormJournalRepository struct{}

func NewGormJournalRepository() JournalRepository {
	return &gormJournalRepository{}
}

func (r *gormJournalRepository) Create(ctx context.Context, tx *gorm.DB, entry *model.DreamJournal) error {
	logger := middleware.GetLogger(ctx)

	result := tx.WithContext(ctx).Create(entry)
	if result.Error != nil {
		logger.Error("Error creating journal entry in DB", "error", result.Error)
		return fmt.Errorf("gormJournalRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormJournalRepository) FindByID(ctx context.Context, db *gorm.DB, userID, dreamID uuid.UUID) (*model.DreamJournal, error) {
	logger := middleware.GetLogger(ctx)
	var entry model.DreamJournal

	// 所有者チェックはクエリ条件で行う (他ユーザーのエントリは404扱い)
	result := db.WithContext(ctx).
		Preload("TagRows").
		Where("user_id = ? AND dream_id = ?", userID, dreamID).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding journal entry in DB",
			"error", result.Error,
			"dream_id", dreamID.String(),
		)
		return nil, fmt.Errorf("gormJournalRepository.FindByID: %w", result.Error)
	}
	return &entry, nil
}

func (r *gormJournalRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.DreamJournal, error) {
	logger := middleware.GetLogger(ctx)
	var entries []*model.DreamJournal

	result := db.WithContext(ctx).
		Preload("TagRows").
		Where("user_id = ?", userID).
		Order("dream_date DESC, created_at DESC").
		Find(&entries)
	if result.Error != nil {
		logger.Error("Error listing journal entries in DB", "error", result.Error)
		return nil, fmt.Errorf("gormJournalRepository.ListByUser: %w", result.Error)
	}
	return entries, nil
}

func (r *gormJournalRepository) Update(ctx context.Context, tx *gorm.DB, entry *model.DreamJournal) error {
	logger := middleware.GetLogger(ctx)

	// Saveは主キーに基づいて全カラムを更新する。存在確認は呼び出し元(Service)が行う想定
	result := tx.WithContext(ctx).Save(entry)
	if result.Error != nil {
		logger.Error(
			"Error updating journal entry in DB",
			"error", result.Error,
			"dream_id", entry.DreamID.String(),
		)
		return fmt.Errorf("gormJournalRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormJournalRepository) Delete(ctx context.Context, tx *gorm.DB, userID, dreamID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	result := tx.WithContext(ctx).
		Where("user_id = ? AND dream_id = ?", userID, dreamID).
		Delete(&model.DreamJournal{})
	if result.Error != nil {
		logger.Error(
			"Error deleting journal entry in DB",
			"error", result.Error,
			"dream_id", dreamID.String(),
		)
		return fmt.Errorf("gormJournalRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ReplaceTags は既存のタグ行をすべて削除し、指定されたタグを登録し直します
func (r *gormJournalRepository) ReplaceTags(ctx context.Context, tx *gorm.DB, dreamID uuid.UUID, tags []string) error {
	logger := middleware.GetLogger(ctx)

	if err := tx.WithContext(ctx).Where("dream_id = ?", dreamID).Delete(&model.DreamTag{}).Error; err != nil {
		logger.Error("Error deleting journal tags in DB", "error", err, "dream_id", dreamID.String())
		return fmt.Errorf("gormJournalRepository.ReplaceTags: %w", err)
	}

	if len(tags) == 0 {
		return nil
	}

	rows := make([]model.DreamTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, model.DreamTag{DreamID: dreamID, TagName: tag})
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		logger.Error("Error inserting journal tags in DB", "error", err, "dream_id", dreamID.String())
		return fmt.Errorf("gormJournalRepository.ReplaceTags: %w", err)
	}
	return nil
}

// CountLucidByDate は指定日の「明晰夢」(明晰度5以上) のエントリ数を返します
func (r *gormJournalRepository) CountLucidByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (int, error) {
	logger := middleware.GetLogger(ctx)
	var count int64

	day := model.DateOnly(date).Format("2006-01-02")
	result := db.WithContext(ctx).
		Model(&model.DreamJournal{}).
		Where("user_id = ? AND DATE(dream_date) = DATE(?) AND lucidity_level >= ?", userID, day, 5).
		Count(&count)
	if result.Error != nil {
		logger.Error("Error counting lucid dreams in DB", "error", result.Error, "date", day)
		return 0, fmt.Errorf("gormJournalRepository.CountLucidByDate: %w", result.Error)
	}
	return int(count), nil
}
