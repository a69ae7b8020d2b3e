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

// 1日の練習目標 (分)。これを満たすと継続スコアが1.0になる
const dailyPracticeGoalMinutes = 30

type ProgressService interface {
	// RecomputeMetrics は指定ユーザー・指定日の集計行をソースデータから再計算します
	RecomputeMetrics(ctx context.Context, userID uuid.UUID, date time.Time) error
	ListMetrics(ctx context.Context, userID uuid.UUID, timeRange string) ([]*model.ProgressMetric, error)
	GetSummary(ctx context.Context, userID uuid.UUID, timeRange string) (*model.ProgressSummary, error)
	GetStreak(ctx context.Context, userID uuid.UUID, today time.Time) (*model.StreakResponse, error)
}

type progressService struct {
	db          *gorm.DB
	metricRepo  repository.MetricRepository
	sessionRepo repository.SessionRepository
	journalRepo repository.JournalRepository
}

func NewProgressService(
	db *gorm.DB,
	metricRepo repository.MetricRepository,
	sessionRepo repository.SessionRepository,
	journalRepo repository.JournalRepository,
) ProgressService {
	return &progressService{
		db:          db,
		metricRepo:  metricRepo,
		sessionRepo: sessionRepo,
		journalRepo: journalRepo,
	}
}

// RecomputeMetrics はセッション合計・明晰夢数・継続スコアを再集計し、
// (user_id, date) の行を upsert します。行は削除しない (60分→削除で0分になっても行は残る)。
func (s *progressService) RecomputeMetrics(ctx context.Context, userID uuid.UUID, date time.Time) error {
	logger := middleware.GetLogger(ctx)
	day := model.DateOnly(date)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		totalMinutes, err := s.sessionRepo.SumDurationByDate(ctx, tx, userID, day)
		if err != nil {
			return err
		}
		lucidCount, err := s.journalRepo.CountLucidByDate(ctx, tx, userID, day)
		if err != nil {
			return err
		}

		consistency := float64(totalMinutes) / float64(dailyPracticeGoalMinutes)
		if consistency > 1.0 {
			consistency = 1.0
		}

		existing, err := s.metricRepo.FindByUserAndDate(ctx, tx, userID, day)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return err
			}
			metric := &model.ProgressMetric{
				MetricID:         uuid.New(),
				UserID:           userID,
				Date:             day,
				LucidDreams:      lucidCount,
				PracticeMinutes:  totalMinutes,
				ConsistencyScore: consistency,
			}
			if err := s.metricRepo.Create(ctx, tx, metric); err != nil {
				return err
			}
			logger.Debug("Progress metric created", "user_id", userID, "date", day.Format("2006-01-02"))
			return nil
		}

		existing.LucidDreams = lucidCount
		existing.PracticeMinutes = totalMinutes
		existing.ConsistencyScore = consistency
		if err := s.metricRepo.Update(ctx, tx, existing); err != nil {
			return err
		}
		logger.Debug("Progress metric updated", "user_id", userID, "date", day.Format("2006-01-02"))
		return nil
	})
}

func (s *progressService) ListMetrics(ctx context.Context, userID uuid.UUID, timeRange string) ([]*model.ProgressMetric, error) {
	since := rangeStart(timeRange, time.Now())
	metrics, err := s.metricRepo.ListByUser(ctx, s.db, userID, since)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "進捗データの取得に失敗しました。", "", err)
	}
	return metrics, nil
}

func (s *progressService) GetSummary(ctx context.Context, userID uuid.UUID, timeRange string) (*model.ProgressSummary, error) {
	since := rangeStart(timeRange, time.Now())
	summary, err := s.metricRepo.SummarizeByUser(ctx, s.db, userID, since)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "進捗サマリーの取得に失敗しました。", "", err)
	}
	return summary, nil
}

// GetStreak は「活動のあった日」(練習分数>0 または 明晰夢>0) の連続日数を返します。
// today は現在日付としてテストから差し替えられる
func (s *progressService) GetStreak(ctx context.Context, userID uuid.UUID, today time.Time) (*model.StreakResponse, error) {
	dates, err := s.metricRepo.ListActiveDates(ctx, s.db, userID)
	if err != nil {
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "連続日数の取得に失敗しました。", "", err)
	}

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, model.DateOnly(d))
	}

	return &model.StreakResponse{
		Current: calcCurrentStreak(days, model.DateOnly(today)),
		Longest: calcLongestStreak(days),
	}, nil
}

// --- ヘルパー関数 ---

// rangeStart は timeRange (week|month|year) を起点日付に変換します。
// 空文字列や未知の値は絞り込みなし (nil) を意味する。
func rangeStart(timeRange string, now time.Time) *time.Time {
	var d time.Duration
	switch timeRange {
	case "week":
		d = 7 * 24 * time.Hour
	case "month":
		d = 30 * 24 * time.Hour
	case "year":
		d = 365 * 24 * time.Hour
	default:
		return nil
	}
	since := model.DateOnly(now.Add(-d))
	return &since
}

// calcCurrentStreak は日付の降順スライスから現在の連続日数を計算します。
// 直近の活動日が今日でも昨日でもなければ 0。
func calcCurrentStreak(daysDesc []time.Time, today time.Time) int {
	if len(daysDesc) == 0 {
		return 0
	}

	// 今日または昨日を起点とする
	expected := today
	if !daysDesc[0].Equal(today) {
		expected = today.AddDate(0, 0, -1)
		if !daysDesc[0].Equal(expected) {
			return 0
		}
	}

	streak := 0
	for _, day := range daysDesc {
		if !day.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// calcLongestStreak は過去全期間での最長連続日数を計算します
func calcLongestStreak(daysDesc []time.Time) int {
	if len(daysDesc) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(daysDesc); i++ {
		if daysDesc[i-1].AddDate(0, 0, -1).Equal(daysDesc[i]) {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}
	return longest
}
