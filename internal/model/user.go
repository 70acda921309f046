package model

import (
	"time"

	"github.com/google/uuid"
)

// ユーザーのロール
const (
	RoleFan   = "FAN"
	RoleIdol  = "IDOL"
	RoleAdmin = "ADMIN"
)

// User はユーザーの基本情報を保持します。
// 生の電話番号は絶対に保存せず、phone_hash (ソルトなしSHA-256) のみを持ちます。
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email         *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Name          *string   `json:"name,omitempty"`
	PhoneHash     *string   `gorm:"uniqueIndex" json:"-"`
	PhoneSalt     *string   `json:"-"` // 将来のソルト付き保存用。照合経路では未使用
	PhoneVerified bool      `gorm:"not null;default:false" json:"phone_verified"`
	Role          string    `gorm:"type:varchar(10);not null;default:'FAN'" json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// GORM用のリレーション (JSONには含めない)
	Accounts []Account `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type ContextKey string

const (
	UserIDKey ContextKey = "userID"
	RoleKey   ContextKey = "role"
)

// UserResponse はクライアントに返すユーザー情報の構造体
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         *string   `json:"email,omitempty"`
	Name          *string   `json:"name,omitempty"`
	Role          string    `json:"role"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewUserResponse は User からレスポンスDTOを組み立てます
func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt,
	}
}
