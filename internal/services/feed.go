package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

// FeedService serves the end-user surface. It only ever exposes visible
// videos: published and not disabled.
type FeedService interface {
	ListVideos(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]*types.Video, int64, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*types.Video, error)
	RecordView(ctx context.Context, videoID uuid.UUID) error
	RecordLike(ctx context.Context, videoID uuid.UUID) error
}

type feedService struct {
	db        *gorm.DB
	log       *logger.Logger
	videoRepo repos.VideoRepo
	userRepo  repos.UserRepo
}

func NewFeedService(db *gorm.DB, baseLog *logger.Logger, videoRepo repos.VideoRepo, userRepo repos.UserRepo) FeedService {
	return &feedService{
		db:        db,
		log:       baseLog.With("service", "FeedService"),
		videoRepo: videoRepo,
		userRepo:  userRepo,
	}
}

func (fs *feedService) ListVideos(ctx context.Context, categoryID *uuid.UUID, offset, limit int) ([]*types.Video, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return fs.videoRepo.List(ctx, nil, repos.VideoFilter{
		VisibleOnly: true,
		CategoryID:  categoryID,
		Offset:      offset,
		Limit:       limit,
	})
}

func (fs *feedService) GetVideo(ctx context.Context, videoID uuid.UUID) (*types.Video, error) {
	video, err := fs.videoRepo.GetByID(ctx, nil, videoID)
	if err != nil {
		return nil, fmt.Errorf("load video: %w", err)
	}
	if video == nil || !video.Visible() {
		return nil, apierr.NotFound("video_not_found", fmt.Errorf("video %s not found", videoID))
	}
	return video, nil
}

func (fs *feedService) RecordView(ctx context.Context, videoID uuid.UUID) error {
	video, err := fs.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if err := fs.videoRepo.IncrementViews(ctx, nil, videoID); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if video.AuthorID != nil {
		if err := fs.userRepo.AddCounters(ctx, nil, *video.AuthorID, 1, 0); err != nil {
			fs.log.Warn("Failed to bump author view counter", "author_id", *video.AuthorID, "error", err)
		}
	}
	return nil
}

func (fs *feedService) RecordLike(ctx context.Context, videoID uuid.UUID) error {
	if _, err := fs.GetVideo(ctx, videoID); err != nil {
		return err
	}
	if err := fs.videoRepo.IncrementLikes(ctx, nil, videoID); err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}
	return nil
}
