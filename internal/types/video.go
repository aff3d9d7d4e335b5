package types

import (
	"time"

	"github.com/google/uuid"
)

type VideoStatus string

const (
	VideoStatusPendingReview VideoStatus = "pending_review"
	VideoStatusPublished     VideoStatus = "published"
	VideoStatusRejected      VideoStatus = "rejected"
)

type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	EnglishTitle string     `gorm:"column:english_title" json:"englishTitle"`
	CategoryID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"categoryId"`
	Category     *Category  `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`

	// Provenance when derived from the pipeline; nil for backend publishes.
	BookID             *uuid.UUID        `gorm:"type:uuid;index" json:"bookId,omitempty"`
	Book               *Book             `gorm:"constraint:OnDelete:SET NULL;foreignKey:BookID;references:ID" json:"book,omitempty"`
	ExtractedContentID *uuid.UUID        `gorm:"type:uuid;index" json:"extractedContentId,omitempty"`
	ExtractedContent   *ExtractedContent `gorm:"constraint:OnDelete:SET NULL;foreignKey:ExtractedContentID;references:ID" json:"extractedContent,omitempty"`
	AuthorID           *uuid.UUID        `gorm:"type:uuid;index" json:"authorId,omitempty"`
	Author             *User             `gorm:"constraint:OnDelete:SET NULL;foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	VideoURL        string      `gorm:"column:video_url;not null" json:"videoUrl"`
	CoverURL        string      `gorm:"column:cover_url" json:"coverUrl"`
	DurationSeconds int         `gorm:"column:duration_seconds" json:"durationSeconds"`
	FileSizeBytes   int64       `gorm:"column:file_size_bytes" json:"fileSizeBytes"`
	Status          VideoStatus `gorm:"column:status;not null;default:'pending_review'" json:"status"`
	Disabled        bool        `gorm:"column:disabled;not null;default:false" json:"disabled"`
	ViewCount       int64       `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	LikeCount       int64       `gorm:"column:like_count;not null;default:0" json:"likeCount"`
	ReviewNotes     string      `gorm:"column:review_notes" json:"reviewNotes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Video) TableName() string { return "video" }

// Visible is the only externally meaningful derived property: a video shows
// up in the end-user feed iff it is published and not disabled.
func (v *Video) Visible() bool {
	return v.Status == VideoStatusPublished && !v.Disabled
}
