// internal/model/resource.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// AudioResource は誘導音声などの音声リソースを表します。
// 全ユーザーが閲覧でき、書き込みは管理者のみ。
type AudioResource struct {
	ResourceID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"resource_id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	ProtocolType    string    `gorm:"not null;index" json:"protocol_type"`
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`
	FilePath        string    `gorm:"not null" json:"file_path"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (AudioResource) TableName() string {
	return "audio_resources"
}

// 音声リソース作成・更新リクエストDTO
type PostResourceRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description,omitempty"`
	ProtocolType    string `json:"protocol_type" validate:"required,oneof=dream_navigation reality_manifestation intention_amplification synchronicity"`
	DurationSeconds int    `json:"duration_seconds" validate:"required,gt=0"`
	FilePath        string `json:"file_path" validate:"required"`
}

type PutResourceRequest = PostResourceRequest
