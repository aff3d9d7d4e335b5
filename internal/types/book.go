package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookStatus string

const (
	BookStatusPending    BookStatus = "pending"
	BookStatusExtracting BookStatus = "extracting"
	BookStatusCompleted  BookStatus = "completed"
)

var bookStatusRank = map[BookStatus]int{
	BookStatusPending:    0,
	BookStatusExtracting: 1,
	BookStatusCompleted:  2,
}

// CanAdvanceTo reports whether moving from s to next is a forward transition.
// Book status never moves backward.
func (s BookStatus) CanAdvanceTo(next BookStatus) bool {
	from, ok := bookStatusRank[s]
	if !ok {
		return false
	}
	to, ok := bookStatusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type Book struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Author     string         `gorm:"column:author" json:"author"`
	ISBN       string         `gorm:"column:isbn" json:"isbn"`
	CategoryID *uuid.UUID     `gorm:"type:uuid;index" json:"categoryId,omitempty"`
	Category   *Category      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	CoverURL   string         `gorm:"column:cover_url" json:"coverUrl"`
	FileURL    string         `gorm:"column:file_url" json:"fileUrl"`
	UploadDate time.Time      `gorm:"column:upload_date;not null;default:now()" json:"uploadDate"`
	Status     BookStatus     `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

func (Book) TableName() string { return "book" }
