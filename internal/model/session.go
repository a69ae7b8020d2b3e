// internal/model/session.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// プロトコル種別 (固定のカテゴリ分類)
const (
	ProtocolDreamNavigation        = "dream_navigation"
	ProtocolRealityManifestation   = "reality_manifestation"
	ProtocolIntentionAmplification = "intention_amplification"
	ProtocolSynchronicity          = "synchronicity"
)

// PracticeSession は練習セッションの1記録を表します
type PracticeSession struct {
	SessionID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"session_id"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProtocolType        string    `gorm:"not null" json:"protocol_type"`
	ProtocolName        string    `gorm:"not null" json:"protocol_name"`
	DurationMinutes     int       `gorm:"not null" json:"duration_minutes"`
	EffectivenessRating int       `gorm:"not null;default:5" json:"effectiveness_rating"` // 1-10
	Notes               string    `json:"notes"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"` // 集計はこの日付に対して行う
	UpdatedAt           time.Time `json:"updated_at"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

// セッション作成リクエストDTO
type PostSessionRequest struct {
	ProtocolType        string `json:"protocol_type" validate:"required,oneof=dream_navigation reality_manifestation intention_amplification synchronicity"`
	ProtocolName        string `json:"protocol_name" validate:"required,max=100"`
	DurationMinutes     int    `json:"duration_minutes" validate:"required,gt=0"`
	EffectivenessRating *int   `json:"effectiveness_rating,omitempty" validate:"omitempty,min=1,max=10"`
	Notes               string `json:"notes,omitempty"`
}

// セッション更新（全体）リクエストDTO
// 更新してもセッションの日付 (created_at) は変わらない
type PutSessionRequest struct {
	ProtocolType        string `json:"protocol_type" validate:"required,oneof=dream_navigation reality_manifestation intention_amplification synchronicity"`
	ProtocolName        string `json:"protocol_name" validate:"required,max=100"`
	DurationMinutes     int    `json:"duration_minutes" validate:"required,gt=0"`
	EffectivenessRating *int   `json:"effectiveness_rating,omitempty" validate:"omitempty,min=1,max=10"`
	Notes               string `json:"notes,omitempty"`
}
