//go:generate mockery --name SessionRepository --output ./mocks --outpkg mocks --case=underscore
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

type SessionRepository interface {
	Create(ctx context.Context, db *gorm.DB, session *model.PracticeSession) error
	FindByID(ctx context.Context, db *gorm.DB, userID, sessionID uuid.UUID) (*model.PracticeSession, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.PracticeSession, error)
	Update(ctx context.Context, db *gorm.DB, session *model.PracticeSession) error
	Delete(ctx context.Context, db *gorm.DB, userID, sessionID uuid.UUID) error
	SumDurationByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (int, error)
}

type gormSessionRepository struct{}

func NewGormSessionRepository() SessionRepository {
	return &gormSessionRepository{}
}

func (r *gormSessionRepository) Create(ctx context.Context, db *gorm.DB, session *model.PracticeSession) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(session)
	if result.Error != nil {
		logger.Error("Error creating practice session in DB", "error", result.Error)
		return fmt.Errorf("gormSessionRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) FindByID(ctx context.Context, db *gorm.DB, userID, sessionID uuid.UUID) (*model.PracticeSession, error) {
	logger := middleware.GetLogger(ctx)
	var session model.PracticeSession

	result := db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding practice session in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
		)
		return nil, fmt.Errorf("gormSessionRepository.FindByID: %w", result.Error)
	}
	return &session, nil
}

func (r *gormSessionRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.PracticeSession, error) {
	logger := middleware.GetLogger(ctx)
	var sessions []*model.PracticeSession

	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions)
	if result.Error != nil {
		logger.Error("Error listing practice sessions in DB", "error", result.Error)
		return nil, fmt.Errorf("gormSessionRepository.ListByUser: %w", result.Error)
	}
	return sessions, nil
}

func (r *gormSessionRepository) Update(ctx context.Context, db *gorm.DB, session *model.PracticeSession) error {
	logger := middleware.GetLogger(ctx)

	// 存在確認は呼び出し元(Service)が行う想定
	result := db.WithContext(ctx).Save(session)
	if result.Error != nil {
		logger.Error(
			"Error updating practice session in DB",
			"error", result.Error,
			"session_id", session.SessionID.String(),
		)
		return fmt.Errorf("gormSessionRepository.Update: %w", result.Error)
	}
	return nil
}

func (r *gormSessionRepository) Delete(ctx context.Context, db *gorm.DB, userID, sessionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Delete(&model.PracticeSession{})
	if result.Error != nil {
		logger.Error(
			"Error deleting practice session in DB",
			"error", result.Error,
			"session_id", sessionID.String(),
		)
		return fmt.Errorf("gormSessionRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SumDurationByDate は指定日の練習時間合計（分）を返します。セッションが無ければ0。
func (r *gormSessionRepository) SumDurationByDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (int, error) {
	logger := middleware.GetLogger(ctx)
	var total int64

	day := model.DateOnly(date).Format("2006-01-02")
	result := db.WithContext(ctx).
		Model(&model.PracticeSession{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("user_id = ? AND DATE(created_at) = DATE(?)", userID, day).
		Scan(&total)
	if result.Error != nil {
		logger.Error("Error summing practice minutes in DB", "error", result.Error, "date", day)
		return 0, fmt.Errorf("gormSessionRepository.SumDurationByDate: %w", result.Error)
	}
	return int(total), nil
}
