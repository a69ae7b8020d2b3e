// internal/model/journal.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DreamJournal は夢日記の1エントリを表します
type DreamJournal struct {
	DreamID        uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"dream_id"`
	UserID         uuid.UUID                      `gorm:"type:uuid;not null;index" json:"-"`
	Title          string                         `gorm:"not null" json:"title"`
	Content        string                         `gorm:"not null" json:"content"`
	DreamDate      time.Time                      `gorm:"type:date;not null;index" json:"dream_date"` // 記入日とは別の、夢を見た日
	LucidityLevel  int                            `gorm:"not null;default:0" json:"lucidity_level"`   // 0-10
	DreamSigns     datatypes.JSONSlice[string]    `json:"dream_signs"`
	TechniquesUsed datatypes.JSONSlice[string]    `json:"techniques_used"`
	CreatedAt      time.Time                      `json:"created_at"`
	UpdatedAt      time.Time                      `json:"updated_at"`

	// タグは別テーブルに1行ずつ保持する (Preload用)
	TagRows []DreamTag `gorm:"foreignKey:DreamID;references:DreamID" json:"-"`
	// レスポンス整形用。サービス層が TagRows から詰める
	Tags []string `gorm:"-" json:"tags"`
}

func (DreamJournal) TableName() string {
	return "dream_journals"
}

// DreamTag はエントリに紐づくタグ1つを表します
type DreamTag struct {
	ID      uint      `gorm:"primaryKey" json:"-"`
	DreamID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	TagName string    `gorm:"not null" json:"tag_name"`
}

func (DreamTag) TableName() string {
	return "dream_tags"
}

// 夢日記作成リクエストDTO
type PostJournalRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Content        string   `json:"content" validate:"required"`
	DreamDate      string   `json:"dream_date" validate:"required,datetime=2006-01-02"`
	LucidityLevel  *int     `json:"lucidity_level,omitempty" validate:"omitempty,min=0,max=10"`
	DreamSigns     []string `json:"dream_signs,omitempty"`
	TechniquesUsed []string `json:"techniques_used,omitempty"`
	Tags           []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

// 夢日記更新（全体）リクエストDTO
type PutJournalRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Content        string   `json:"content" validate:"required"`
	DreamDate      string   `json:"dream_date" validate:"required,datetime=2006-01-02"`
	LucidityLevel  *int     `json:"lucidity_level,omitempty" validate:"omitempty,min=0,max=10"`
	DreamSigns     []string `json:"dream_signs,omitempty"`
	TechniquesUsed []string `json:"techniques_used,omitempty"`
	Tags           []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}
