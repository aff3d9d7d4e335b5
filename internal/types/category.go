package types

import (
	"time"

	"github.com/google/uuid"
)

// Category is read-mostly reference data seeded at startup. Name is the
// canonical english key; DisplayName is the localized label.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"column:display_name;not null" json:"displayName"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Category) TableName() string { return "category" }
