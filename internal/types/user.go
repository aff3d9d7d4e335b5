package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"column:username" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"isAdmin"`
	CanPublish   bool      `gorm:"column:can_publish;not null;default:false" json:"canPublish"`
	CanComment   bool      `gorm:"column:can_comment;not null;default:true" json:"canComment"`
	TotalViews   int64     `gorm:"column:total_views;not null;default:0" json:"totalViews"`
	TotalVideos  int64     `gorm:"column:total_videos;not null;default:0" json:"totalVideos"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string { return "app_user" }
