// internal/model/metric.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressMetric は (ユーザー, 日付) ごとの集計行を表します。
// 同一キーの行は必ず1行だけ存在する (複合ユニークインデックス)。
type ProgressMetric struct {
	MetricID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"metric_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_user_metric_date,unique" json:"user_id"`
	Date             time.Time `gorm:"type:date;not null;index:idx_user_metric_date,unique" json:"date"`
	LucidDreams      int       `gorm:"not null;default:0" json:"lucid_dreams"`
	PracticeMinutes  int       `gorm:"not null;default:0" json:"practice_minutes"`
	ConsistencyScore float64   `gorm:"not null;default:0" json:"consistency_score"` // [0,1]
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ProgressMetric) TableName() string {
	return "progress_metrics"
}

// ProgressSummary は期間全体の合計・平均を表すレスポンスDTO
type ProgressSummary struct {
	TotalLucidDreams     int     `json:"totalLucidDreams"`
	TotalPracticeMinutes int     `json:"totalPracticeMinutes"`
	AverageConsistency   float64 `json:"averageConsistency"`
}

// StreakResponse は連続日数のレスポンスDTO
type StreakResponse struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// DateOnly は時刻部分を落とし、カレンダー日付としてUTC深夜0時に正規化します。
// 集計・連続日数計算はすべてこの正規化を通した値で行う。
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
