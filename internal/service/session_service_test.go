// internal/service/session_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_5_lucid_keep/internal/model"
	"go_5_lucid_keep/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBSession() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

// recomputeRecorder はProgressServiceのテストダブル。
// RecomputeMetricsの呼び出しを記録し、設定されたエラーを返す。
type recomputeRecorder struct {
	calls []recomputeCall
	err   error
}

type recomputeCall struct {
	userID uuid.UUID
	date   time.Time
}

func (r *recomputeRecorder) RecomputeMetrics(ctx context.Context, userID uuid.UUID, date time.Time) error {
	r.calls = append(r.calls, recomputeCall{userID: userID, date: date})
	return r.err
}

func (r *recomputeRecorder) ListMetrics(ctx context.Context, userID uuid.UUID, timeRange string) ([]*model.ProgressMetric, error) {
	return nil, nil
}

func (r *recomputeRecorder) GetSummary(ctx context.Context, userID uuid.UUID, timeRange string) (*model.ProgressSummary, error) {
	return nil, nil
}

func (r *recomputeRecorder) GetStreak(ctx context.Context, userID uuid.UUID, today time.Time) (*model.StreakResponse, error) {
	return nil, nil
}

// --- Test CreateSession ---
func Test_sessionService_CreateSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession()
	userID := uuid.New()

	req := &model.PostSessionRequest{
		ProtocolType:    model.ProtocolDreamNavigation,
		ProtocolName:    "MILD",
		DurationMinutes: 20,
	}

	t.Run("正常系: セッション作成後に当日の集計が再計算される", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		sessionRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.PracticeSession")).
			Run(func(args mock.Arguments) {
				session := args.Get(2).(*model.PracticeSession)
				assert.Equal(t, userID, session.UserID)
				assert.Equal(t, model.ProtocolDreamNavigation, session.ProtocolType)
				assert.Equal(t, 20, session.DurationMinutes)
				// 評価未指定時はデフォルト5
				assert.Equal(t, 5, session.EffectivenessRating)
				assert.NotEqual(t, uuid.Nil, session.SessionID)
			}).Return(nil).Once()

		session, err := svc.CreateSession(ctx, userID, req)

		require.NoError(t, err)
		require.NotNil(t, session)
		require.Len(t, recorder.calls, 1)
		assert.Equal(t, userID, recorder.calls[0].userID)
		assert.Equal(t, model.DateOnly(time.Now()), model.DateOnly(recorder.calls[0].date))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("正常系: 集計の再計算が失敗してもセッション作成は成功する", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{err: errors.New("recompute failed")}
		svc := NewSessionService(db, sessionRepo, recorder)

		sessionRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.PracticeSession")).
			Return(nil).Once()

		session, err := svc.CreateSession(ctx, userID, req)

		require.NoError(t, err)
		assert.NotNil(t, session)
		assert.Len(t, recorder.calls, 1)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("異常系: DBエラー時は集計の再計算は行われない", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		sessionRepo.On("Create", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.PracticeSession")).
			Return(errors.New("db error")).Once()

		_, err := svc.CreateSession(ctx, userID, req)

		assert.Error(t, err)
		assert.Empty(t, recorder.calls)
		sessionRepo.AssertExpectations(t)
	})
}

// --- Test UpdateSession ---
func Test_sessionService_UpdateSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession()
	userID := uuid.New()
	sessionID := uuid.New()
	createdAt := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)

	t.Run("正常系: 更新しても集計の再計算は行われず記録日も変わらない", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		existing := &model.PracticeSession{
			SessionID:       sessionID,
			UserID:          userID,
			ProtocolType:    model.ProtocolDreamNavigation,
			ProtocolName:    "MILD",
			DurationMinutes: 20,
			CreatedAt:       createdAt,
		}
		sessionRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, sessionID).
			Return(existing, nil).Once()
		sessionRepo.On("Update", ctx, mock.AnythingOfType("*gorm.DB"), mock.AnythingOfType("*model.PracticeSession")).
			Run(func(args mock.Arguments) {
				session := args.Get(2).(*model.PracticeSession)
				assert.Equal(t, model.ProtocolSynchronicity, session.ProtocolType)
				assert.Equal(t, 45, session.DurationMinutes)
				assert.Equal(t, createdAt, session.CreatedAt)
			}).Return(nil).Once()

		rating := 8
		updated, err := svc.UpdateSession(ctx, userID, sessionID, &model.PutSessionRequest{
			ProtocolType:        model.ProtocolSynchronicity,
			ProtocolName:        "Synchronicity Walk",
			DurationMinutes:     45,
			EffectivenessRating: &rating,
		})

		require.NoError(t, err)
		assert.Equal(t, 8, updated.EffectivenessRating)
		assert.Empty(t, recorder.calls)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないセッションはErrNotFound", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		sessionRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, sessionID).
			Return(nil, model.ErrNotFound).Once()

		_, err := svc.UpdateSession(ctx, userID, sessionID, &model.PutSessionRequest{
			ProtocolType:    model.ProtocolDreamNavigation,
			ProtocolName:    "MILD",
			DurationMinutes: 10,
		})

		assert.ErrorIs(t, err, model.ErrNotFound)
		sessionRepo.AssertExpectations(t)
	})
}

// --- Test DeleteSession ---
func Test_sessionService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBSession()
	userID := uuid.New()
	sessionID := uuid.New()
	// 削除対象が属していた「過去の日付」で再計算されること
	createdAt := time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC)

	t.Run("正常系: 削除後にそのセッションの日付で集計が再計算される", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		existing := &model.PracticeSession{
			SessionID: sessionID,
			UserID:    userID,
			CreatedAt: createdAt,
		}
		sessionRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, sessionID).
			Return(existing, nil).Once()
		sessionRepo.On("Delete", ctx, mock.AnythingOfType("*gorm.DB"), userID, sessionID).
			Return(nil).Once()

		err := svc.DeleteSession(ctx, userID, sessionID)

		require.NoError(t, err)
		require.Len(t, recorder.calls, 1)
		assert.Equal(t, model.DateOnly(createdAt), model.DateOnly(recorder.calls[0].date))
		sessionRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しないセッションの削除はErrNotFoundで再計算なし", func(t *testing.T) {
		sessionRepo := new(mocks.SessionRepository)
		recorder := &recomputeRecorder{}
		svc := NewSessionService(db, sessionRepo, recorder)

		sessionRepo.On("FindByID", ctx, mock.AnythingOfType("*gorm.DB"), userID, sessionID).
			Return(nil, model.ErrNotFound).Once()

		err := svc.DeleteSession(ctx, userID, sessionID)

		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Empty(t, recorder.calls)
		sessionRepo.AssertExpectations(t)
	})
}
