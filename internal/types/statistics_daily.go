package types

import (
	"time"

	"github.com/google/uuid"
)

// StatisticsDaily holds one row per calendar date. Rows are upserted by date
// and mutated in place, never duplicated.
type StatisticsDaily struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Date           string    `gorm:"column:date;uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	Users          int64     `gorm:"column:users;not null;default:0" json:"users"`
	Videos         int64     `gorm:"column:videos;not null;default:0" json:"videos"`
	Views          int64     `gorm:"column:views;not null;default:0" json:"views"`
	Likes          int64     `gorm:"column:likes;not null;default:0" json:"likes"`
	Comments       int64     `gorm:"column:comments;not null;default:0" json:"comments"`
	PendingReviews int64     `gorm:"column:pending_reviews;not null;default:0" json:"pendingReviews"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (StatisticsDaily) TableName() string { return "statistics_daily" }
