package service

import (
	"context"
	"errors"
	"time"

	"go_5_lucid_keep/internal/middleware"
	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, req *model.PostSessionRequest) (*model.PracticeSession, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.PracticeSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]*model.PracticeSession, error)
	UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *model.PutSessionRequest) (*model.PracticeSession, error)
	DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

type sessionService struct {
	db           *gorm.DB
	sessionRepo  repository.SessionRepository
	progressServ ProgressService
}

func NewSessionService(db *gorm.DB, sessionRepo repository.SessionRepository, progressServ ProgressService) SessionService {
	return &sessionService{
		db:           db,
		sessionRepo:  sessionRepo,
		progressServ: progressServ,
	}
}

// CreateSession は練習セッションを記録し、当日の進捗集計を再計算します
func (s *sessionService) CreateSession(ctx context.Context, userID uuid.UUID, req *model.PostSessionRequest) (*model.PracticeSession, error) {
	logger := middleware.GetLogger(ctx)

	session := &model.PracticeSession{
		SessionID:       uuid.New(),
		UserID:          userID,
		ProtocolType:    req.ProtocolType,
		ProtocolName:    req.ProtocolName,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
	}
	session.EffectivenessRating = 5
	if req.EffectivenessRating != nil {
		session.EffectivenessRating = *req.EffectivenessRating
	}

	if err := s.sessionRepo.Create(ctx, s.db, session); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの記録に失敗しました。", "", err)
	}

	// 集計の再計算はベストエフォート。失敗してもセッション作成自体は成功として返す
	s.recompute(ctx, userID, session.CreatedAt)

	logger.Info("Practice session created", "session_id", session.SessionID, "user_id", userID, "protocol_type", session.ProtocolType)
	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*model.PracticeSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, s.db, userID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "指定されたセッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの取得に失敗しました。", "", err)
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*model.PracticeSession, error) {
	sessions, err := s.sessionRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッション一覧の取得に失敗しました。", "", err)
	}
	return sessions, nil
}

// UpdateSession はセッション内容を更新します。記録日 (created_at) は変わらないため
// 進捗集計の再計算は行わない。
func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *model.PutSessionRequest) (*model.PracticeSession, error) {
	logger := middleware.GetLogger(ctx)

	session, err := s.sessionRepo.FindByID(ctx, s.db, userID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("SESSION_NOT_FOUND", "指定されたセッションが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの取得に失敗しました。", "", err)
	}

	session.ProtocolType = req.ProtocolType
	session.ProtocolName = req.ProtocolName
	session.DurationMinutes = req.DurationMinutes
	session.Notes = req.Notes
	session.EffectivenessRating = 5
	if req.EffectivenessRating != nil {
		session.EffectivenessRating = *req.EffectivenessRating
	}

	if err := s.sessionRepo.Update(ctx, s.db, session); err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの更新に失敗しました。", "", err)
	}

	logger.Info("Practice session updated", "session_id", sessionID, "user_id", userID)
	return session, nil
}

// DeleteSession はセッションを削除し、そのセッションが属していた日の集計を再計算します
func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)

	// 再計算対象の日付を知るため、削除前に行を読む
	session, err := s.sessionRepo.FindByID(ctx, s.db, userID, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("SESSION_NOT_FOUND", "指定されたセッションが見つかりません。", "", model.ErrNotFound)
		}
		return model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの取得に失敗しました。", "", err)
	}

	if err := s.sessionRepo.Delete(ctx, s.db, userID, sessionID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("SESSION_NOT_FOUND", "指定されたセッションが見つかりません。", "", model.ErrNotFound)
		}
		return model.NewAppError("INTERNAL_SERVER_ERROR", "セッションの削除に失敗しました。", "", err)
	}

	s.recompute(ctx, userID, session.CreatedAt)

	logger.Info("Practice session deleted", "session_id", sessionID, "user_id", userID)
	return nil
}

// recompute は進捗集計を再計算し、失敗してもエラーをログに残すだけで握りつぶします
func (s *sessionService) recompute(ctx context.Context, userID uuid.UUID, date time.Time) {
	logger := middleware.GetLogger(ctx)
	if err := s.progressServ.RecomputeMetrics(ctx, userID, date); err != nil {
		logger.Error(
			"Failed to recompute progress metrics",
			"error", err,
			"user_id", userID.String(),
			"date", model.DateOnly(date).Format("2006-01-02"),
		)
	}
}
