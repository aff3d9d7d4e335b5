package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentVideoStatus string

const (
	ContentVideoPending    ContentVideoStatus = "pending"
	ContentVideoGenerating ContentVideoStatus = "generating"
	ContentVideoCompleted  ContentVideoStatus = "completed"
	ContentVideoFailed     ContentVideoStatus = "failed"
)

// ExtractedContent is one chapter/segment extracted from a Book. Pipeline
// stages append artifact URLs; a stage re-run overwrites only its own field.
// completed implies VideoURL is set, failed implies it is empty.
type ExtractedContent struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookID       uuid.UUID `gorm:"type:uuid;not null;index" json:"bookId"`
	Book         *Book     `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookID;references:ID" json:"book,omitempty"`
	ChapterIndex int       `gorm:"column:chapter_index;not null" json:"chapterIndex"`
	ChapterTitle string    `gorm:"column:chapter_title;not null" json:"chapterTitle"`
	Summary      string    `gorm:"column:summary" json:"summary"`
	KeyPoints    datatypes.JSON `gorm:"column:key_points;type:jsonb" json:"keyPoints"`
	EstimatedDurationSeconds int `gorm:"column:estimated_duration_seconds" json:"estimatedDurationSeconds"`

	VideoStatus ContentVideoStatus `gorm:"column:video_status;not null;default:'pending'" json:"videoStatus"`

	AvatarImageURL string `gorm:"column:avatar_image_url" json:"avatarImageUrl"`
	AudioURL       string `gorm:"column:audio_url" json:"audioUrl"`
	EnglishAudioURL string `gorm:"column:english_audio_url" json:"englishAudioUrl"`
	SilentVideoURL string `gorm:"column:silent_video_url" json:"silentVideoUrl"`
	VideoURL       string `gorm:"column:video_url" json:"videoUrl"`
	EnglishVideoURL string `gorm:"column:english_video_url" json:"englishVideoUrl"`

	EnglishTitle   string `gorm:"column:english_title" json:"englishTitle"`
	EnglishSummary string `gorm:"column:english_summary" json:"englishSummary"`

	LastError string `gorm:"column:last_error" json:"lastError,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (ExtractedContent) TableName() string { return "extracted_content" }
