package model

import (
	"time"

	"github.com/google/uuid"
)

// Idol は推しアカウントを表します。
// sns_link は外部SNSのプロフィールURL (例: https://twitter.com/handle) で、
// claimed_by は未claim→claim済みへ一度だけ遷移します。
type Idol struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	SNSHandle     *string    `gorm:"column:sns_handle" json:"sns_handle,omitempty"`
	SNSLink       *string    `gorm:"column:sns_link;uniqueIndex" json:"sns_link,omitempty"`
	Description   *string    `json:"description,omitempty"`
	ProfileImage  *string    `json:"profile_image,omitempty"`
	ClaimedBy     *uuid.UUID `gorm:"type:uuid" json:"claimed_by,omitempty"`
	ClaimedAt     *time.Time `json:"claimed_at,omitempty"`
	SNSVerifiedAt *time.Time `gorm:"column:sns_verified_at" json:"sns_verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Idol) TableName() string {
	return "idols"
}

// IsClaimed はclaim済みかどうかを返します
func (i *Idol) IsClaimed() bool {
	return i.ClaimedBy != nil
}

// CreateIdolRequest は推し作成APIのリクエストボディ
type CreateIdolRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	SNSHandle   *string `json:"sns_handle" validate:"omitempty,max=100"`
	SNSLink     *string `json:"sns_link" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateIdolRequest は推し更新APIのリクエストボディ (公式オーナーのみ)
type UpdateIdolRequest struct {
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	SNSHandle    *string `json:"sns_handle" validate:"omitempty,max=100"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
}
