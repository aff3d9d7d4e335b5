package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/clients/mailer"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

const (
	ReviewActionApprove = "approve"
	ReviewActionReject  = "reject"
)

// PublishInput carries either pipeline provenance (ContentID) or freestanding
// admin-supplied fields. Title, CategoryID, and VideoURL are mandatory either
// way and are validated before any row is created.
type PublishInput struct {
	Title           string
	EnglishTitle    string
	CategoryID      uuid.UUID
	ContentID       *uuid.UUID
	AuthorID        *uuid.UUID
	VideoURL        string
	CoverURL        string
	DurationSeconds int
	FileSizeBytes   int64
}

type VideoService interface {
	Publish(ctx context.Context, input PublishInput) (*types.Video, error)
	// Review moves pending_review to published or rejected. Reviewing a
	// video in any other state is an invalid transition, not a no-op —
	// except re-applying the same outcome, which returns the current row
	// (idempotent retry after a timed-out review).
	Review(ctx context.Context, videoID uuid.UUID, action, notes string) (*types.Video, error)
	ToggleDisabled(ctx context.Context, videoID uuid.UUID, disabled bool) (*types.Video, error)
	Delete(ctx context.Context, videoID uuid.UUID) error
	Get(ctx context.Context, videoID uuid.UUID) (*types.Video, error)
	List(ctx context.Context, filter repos.VideoFilter) ([]*types.Video, int64, error)
	Update(ctx context.Context, videoID uuid.UUID, updates map[string]interface{}) (*types.Video, error)
}

type videoService struct {
	db           *gorm.DB
	log          *logger.Logger
	videoRepo    repos.VideoRepo
	contentRepo  repos.ExtractedContentRepo
	categoryRepo repos.CategoryRepo
	userRepo     repos.UserRepo
	mail         mailer.Mailer
}

func NewVideoService(
	db *gorm.DB,
	baseLog *logger.Logger,
	videoRepo repos.VideoRepo,
	contentRepo repos.ExtractedContentRepo,
	categoryRepo repos.CategoryRepo,
	userRepo repos.UserRepo,
	mail mailer.Mailer,
) VideoService {
	return &videoService{
		db:           db,
		log:          baseLog.With("service", "VideoService"),
		videoRepo:    videoRepo,
		contentRepo:  contentRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		mail:         mail,
	}
}

func (vs *videoService) Publish(ctx context.Context, input PublishInput) (*types.Video, error) {
	if input.Title == "" {
		return nil, apierr.Validation("missing_title", fmt.Errorf("title is required"))
	}
	if input.CategoryID == uuid.Nil {
		return nil, apierr.Validation("missing_category", fmt.Errorf("category is required"))
	}
	if input.VideoURL == "" {
		return nil, apierr.Validation("missing_video_url", fmt.Errorf("videoUrl is required"))
	}
	category, err := vs.categoryRepo.GetByID(ctx, nil, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category == nil {
		return nil, apierr.NotFound("category_not_found", fmt.Errorf("category %s not found", input.CategoryID))
	}

	video := &types.Video{
		ID:              uuid.New(),
		Title:           input.Title,
		EnglishTitle:    input.EnglishTitle,
		CategoryID:      input.CategoryID,
		AuthorID:        input.AuthorID,
		VideoURL:        input.VideoURL,
		CoverURL:        input.CoverURL,
		DurationSeconds: input.DurationSeconds,
		FileSizeBytes:   input.FileSizeBytes,
		Status:          types.VideoStatusPendingReview,
	}

	if input.ContentID != nil {
		item, err := vs.contentRepo.GetByID(ctx, nil, *input.ContentID)
		if err != nil {
			return nil, fmt.Errorf("load content: %w", err)
		}
		if item == nil {
			return nil, apierr.NotFound("content_not_found", fmt.Errorf("content %s not found", *input.ContentID))
		}
		if item.VideoStatus != types.ContentVideoCompleted || item.VideoURL == "" {
			return nil, apierr.Validation("content_not_ready", fmt.Errorf("content %s has no completed video", *input.ContentID))
		}
		video.ExtractedContentID = input.ContentID
		video.BookID = &item.BookID
		if video.EnglishTitle == "" {
			video.EnglishTitle = item.EnglishTitle
		}
	}

	if _, err := vs.videoRepo.Create(ctx, nil, video); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	if video.AuthorID != nil {
		if err := vs.userRepo.AddCounters(ctx, nil, *video.AuthorID, 0, 1); err != nil {
			vs.log.Warn("Failed to bump author video counter", "author_id", *video.AuthorID, "error", err)
		}
	}
	vs.log.Info("Video submitted for review", "video_id", video.ID)
	return video, nil
}

func (vs *videoService) Review(ctx context.Context, videoID uuid.UUID, action, notes string) (*types.Video, error) {
	if action != ReviewActionApprove && action != ReviewActionReject {
		return nil, apierr.Validation("invalid_review_action", fmt.Errorf("action must be %q or %q", ReviewActionApprove, ReviewActionReject))
	}
	video, err := vs.mustGet(ctx, videoID)
	if err != nil {
		return nil, err
	}

	target := types.VideoStatusPublished
	if action == ReviewActionReject {
		target = types.VideoStatusRejected
	}

	if video.Status != types.VideoStatusPendingReview {
		// Same-outcome retries land here after a timed-out review whose
		// server-side effect already applied.
		if video.Status == target {
			return video, nil
		}
		return nil, apierr.InvalidTransition("not_pending_review", fmt.Errorf("video %s is %q, only pending_review videos can be reviewed", videoID, video.Status))
	}

	if err := vs.videoRepo.SetStatus(ctx, nil, videoID, target, notes); err != nil {
		return nil, fmt.Errorf("apply review: %w", err)
	}
	vs.log.Info("Video reviewed", "video_id", videoID, "action", action)
	vs.notifyAuthor(ctx, video, action, notes)
	return vs.mustGet(ctx, videoID)
}

func (vs *videoService) notifyAuthor(ctx context.Context, video *types.Video, action, notes string) {
	if vs.mail == nil || video.AuthorID == nil {
		return
	}
	author, err := vs.userRepo.GetByID(ctx, nil, *video.AuthorID)
	if err != nil || author == nil {
		return
	}
	outcome := "approved"
	if action == ReviewActionReject {
		outcome = "rejected"
	}
	subject := fmt.Sprintf("Your video %q was %s", video.Title, outcome)
	body := "Review result: " + action
	if notes != "" {
		body += "\nNotes: " + notes
	}
	if err := vs.mail.Send(ctx, author.Email, subject, body); err != nil {
		vs.log.Warn("Review notification mail failed", "video_id", video.ID, "error", err)
	}
}

func (vs *videoService) ToggleDisabled(ctx context.Context, videoID uuid.UUID, disabled bool) (*types.Video, error) {
	if _, err := vs.mustGet(ctx, videoID); err != nil {
		return nil, err
	}
	// The flag is stored regardless of status so history survives later
	// status changes; it only affects visibility on published videos.
	if err := vs.videoRepo.SetDisabled(ctx, nil, videoID, disabled); err != nil {
		return nil, fmt.Errorf("toggle disabled: %w", err)
	}
	return vs.mustGet(ctx, videoID)
}

func (vs *videoService) Delete(ctx context.Context, videoID uuid.UUID) error {
	if _, err := vs.mustGet(ctx, videoID); err != nil {
		return err
	}
	if err := vs.videoRepo.Delete(ctx, nil, videoID); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	vs.log.Info("Video deleted", "video_id", videoID)
	return nil
}

func (vs *videoService) Get(ctx context.Context, videoID uuid.UUID) (*types.Video, error) {
	return vs.mustGet(ctx, videoID)
}

func (vs *videoService) List(ctx context.Context, filter repos.VideoFilter) ([]*types.Video, int64, error) {
	return vs.videoRepo.List(ctx, nil, filter)
}

func (vs *videoService) Update(ctx context.Context, videoID uuid.UUID, updates map[string]interface{}) (*types.Video, error) {
	if _, err := vs.mustGet(ctx, videoID); err != nil {
		return nil, err
	}
	if err := vs.videoRepo.UpdateFields(ctx, nil, videoID, updates); err != nil {
		return nil, apierr.Validation("invalid_update", err)
	}
	return vs.mustGet(ctx, videoID)
}

func (vs *videoService) mustGet(ctx context.Context, videoID uuid.UUID) (*types.Video, error) {
	video, err := vs.videoRepo.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}
	if video == nil {
		return nil, apierr.NotFound("video_not_found", fmt.Errorf("video %s not found", videoID))
	}
	return video, nil
}
