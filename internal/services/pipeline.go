package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shelfcast/shelfcast-backend/internal/clients/studio"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

var allowedSegmentCounts = map[int]bool{5: true, 10: true, 20: true, 30: true}

// PipelineService drives one ExtractedContent item through the ordered stage
// sequence, persisting status and artifacts after every stage so a crash or
// timeout leaves resumable state. Stage failures are never retried here;
// recovery is an operator re-invoking the failed stage.
type PipelineService interface {
	Extract(ctx context.Context, bookID uuid.UUID, segments int) ([]*types.ExtractedContent, error)
	GenerateAvatar(ctx context.Context, contentID uuid.UUID, avatarDescription string) (*types.ExtractedContent, error)
	GenerateAudio(ctx context.Context, contentID uuid.UUID, text, language string) (*types.ExtractedContent, error)
	GenerateSilentVideo(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error)
	MergeVideo(ctx context.Context, contentID uuid.UUID, audioURL, language string) (*types.ExtractedContent, error)
	Translate(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error)
	// GenerateEnglishVideo is translate -> audio(en) -> merge(en) as one
	// operation; it has no intermediate state worth exposing.
	GenerateEnglishVideo(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error)
}

type pipelineService struct {
	db          *gorm.DB
	log         *logger.Logger
	studio      studio.Client
	bookRepo    repos.BookRepo
	contentRepo repos.ExtractedContentRepo
}

func NewPipelineService(
	db *gorm.DB,
	baseLog *logger.Logger,
	studioClient studio.Client,
	bookRepo repos.BookRepo,
	contentRepo repos.ExtractedContentRepo,
) PipelineService {
	return &pipelineService{
		db:          db,
		log:         baseLog.With("service", "PipelineService"),
		studio:      studioClient,
		bookRepo:    bookRepo,
		contentRepo: contentRepo,
	}
}

func (ps *pipelineService) Extract(ctx context.Context, bookID uuid.UUID, segments int) ([]*types.ExtractedContent, error) {
	if !allowedSegmentCounts[segments] {
		return nil, apierr.Validation("invalid_segments", fmt.Errorf("segments must be one of 5, 10, 20, 30"))
	}
	book, err := ps.bookRepo.GetByID(ctx, nil, bookID)
	if err != nil {
		return nil, fmt.Errorf("load book: %w", err)
	}
	if book == nil {
		return nil, apierr.NotFound("book_not_found", fmt.Errorf("book %s not found", bookID))
	}
	if book.FileURL == "" {
		return nil, apierr.Validation("book_has_no_file", fmt.Errorf("book %s has no uploaded file", bookID))
	}

	if err := ps.bookRepo.AdvanceStatus(ctx, nil, bookID, types.BookStatusExtracting); err != nil {
		if errors.Is(err, repos.ErrInvalidStatusTransition) {
			return nil, apierr.InvalidTransition("book_not_extractable", err)
		}
		return nil, fmt.Errorf("mark book extracting: %w", err)
	}

	chapters, err := ps.studio.ExtractChapters(ctx, studio.ExtractRequest{
		FileURL:  book.FileURL,
		Title:    book.Title,
		Author:   book.Author,
		Segments: segments,
	})
	if err != nil {
		// Book stays in extracting; the operator retries the stage.
		return nil, apierr.Upstream("extract_failed", fmt.Errorf("extract stage: %w", err))
	}

	items := make([]*types.ExtractedContent, 0, len(chapters))
	for i, ch := range chapters {
		keyPoints, mErr := json.Marshal(ch.KeyPoints)
		if mErr != nil {
			return nil, fmt.Errorf("encode key points: %w", mErr)
		}
		items = append(items, &types.ExtractedContent{
			ID:                       uuid.New(),
			BookID:                   bookID,
			ChapterIndex:             i,
			ChapterTitle:             ch.Title,
			Summary:                  ch.Summary,
			KeyPoints:                keyPoints,
			EstimatedDurationSeconds: ch.EstimatedDurationSeconds,
			VideoStatus:              types.ContentVideoPending,
		})
	}

	// A re-run replaces the previous segmentation wholesale.
	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.contentRepo.DeleteByBookID(ctx, tx, bookID); err != nil {
			return err
		}
		if _, err := ps.contentRepo.CreateBatch(ctx, tx, items); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persist extracted contents: %w", err)
	}

	if err := ps.bookRepo.AdvanceStatus(ctx, nil, bookID, types.BookStatusCompleted); err != nil {
		return nil, fmt.Errorf("mark book completed: %w", err)
	}
	ps.log.Info("Book extracted", "book_id", bookID, "segments", len(items))
	return items, nil
}

func (ps *pipelineService) GenerateAvatar(ctx context.Context, contentID uuid.UUID, avatarDescription string) (*types.ExtractedContent, error) {
	if avatarDescription == "" {
		return nil, apierr.Validation("missing_avatar_description", fmt.Errorf("avatarDescription is required"))
	}
	item, err := ps.mustGetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	url, err := ps.studio.GenerateAvatar(ctx, studio.AvatarRequest{
		Description: avatarDescription,
		Summary:     item.Summary,
	})
	if err != nil {
		return nil, ps.failStage(ctx, contentID, "generate-avatar", err)
	}
	return ps.applyArtifacts(ctx, contentID, map[string]interface{}{
		"avatar_image_url": url,
	})
}

func (ps *pipelineService) GenerateAudio(ctx context.Context, contentID uuid.UUID, text, language string) (*types.ExtractedContent, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	item, err := ps.mustGetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if text == "" {
		if language == LanguageEnglish {
			text = item.EnglishSummary
		} else {
			text = item.Summary
		}
	}
	if text == "" {
		return nil, apierr.Validation("missing_narration_text", fmt.Errorf("no narration text available for language %q", language))
	}
	url, err := ps.studio.GenerateAudio(ctx, studio.AudioRequest{Text: text, Language: language})
	if err != nil {
		return nil, ps.failStage(ctx, contentID, "generate-audio", err)
	}
	column := "audio_url"
	if language == LanguageEnglish {
		column = "english_audio_url"
	}
	return ps.applyArtifacts(ctx, contentID, map[string]interface{}{column: url})
}

func (ps *pipelineService) GenerateSilentVideo(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error) {
	item, err := ps.mustGetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item.AvatarImageURL == "" {
		return nil, apierr.Validation("avatar_required", fmt.Errorf("generate an avatar before the silent video"))
	}
	if _, err := ps.applyArtifacts(ctx, contentID, map[string]interface{}{
		"video_status": types.ContentVideoGenerating,
	}); err != nil {
		return nil, err
	}
	url, err := ps.studio.GenerateSilentVideo(ctx, studio.SilentVideoRequest{
		AvatarImageURL:  item.AvatarImageURL,
		Summary:         item.Summary,
		DurationSeconds: item.EstimatedDurationSeconds,
	})
	if err != nil {
		return nil, ps.failStage(ctx, contentID, "generate-silent-video", err)
	}
	return ps.applyArtifacts(ctx, contentID, map[string]interface{}{
		"silent_video_url": url,
	})
}

func (ps *pipelineService) MergeVideo(ctx context.Context, contentID uuid.UUID, audioURL, language string) (*types.ExtractedContent, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	item, err := ps.mustGetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item.SilentVideoURL == "" {
		return nil, apierr.Validation("silent_video_required", fmt.Errorf("generate the silent video before merging"))
	}
	if audioURL == "" {
		if language == LanguageEnglish {
			audioURL = item.EnglishAudioURL
		} else {
			audioURL = item.AudioURL
		}
	}
	if audioURL == "" {
		return nil, apierr.Validation("audio_required", fmt.Errorf("generate %s audio before merging", language))
	}

	url, err := ps.studio.MergeVideo(ctx, studio.MergeRequest{
		SilentVideoURL: item.SilentVideoURL,
		AudioURL:       audioURL,
		Language:       language,
	})
	if err != nil {
		return nil, ps.failStage(ctx, contentID, "merge", err)
	}

	updates := map[string]interface{}{"last_error": ""}
	if language == LanguageEnglish {
		updates["english_video_url"] = url
		// English output alone does not complete the item; completion is
		// tied to the primary video artifact.
		if item.VideoURL != "" {
			updates["video_status"] = types.ContentVideoCompleted
		}
	} else {
		updates["video_url"] = url
		updates["video_status"] = types.ContentVideoCompleted
	}
	return ps.applyArtifacts(ctx, contentID, updates)
}

func (ps *pipelineService) Translate(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error) {
	item, err := ps.mustGetContent(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item.Summary == "" && item.ChapterTitle == "" {
		return nil, apierr.Validation("nothing_to_translate", fmt.Errorf("content %s has no title or summary", contentID))
	}
	translation, err := ps.studio.Translate(ctx, studio.TranslateRequest{
		Title:   item.ChapterTitle,
		Summary: item.Summary,
	})
	if err != nil {
		return nil, ps.failStage(ctx, contentID, "translate", err)
	}
	return ps.applyArtifacts(ctx, contentID, map[string]interface{}{
		"english_title":   translation.Title,
		"english_summary": translation.Summary,
	})
}

func (ps *pipelineService) GenerateEnglishVideo(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error) {
	if _, err := ps.Translate(ctx, contentID); err != nil {
		return nil, err
	}
	item, err := ps.GenerateAudio(ctx, contentID, "", LanguageEnglish)
	if err != nil {
		return nil, err
	}
	return ps.MergeVideo(ctx, contentID, item.EnglishAudioURL, LanguageEnglish)
}

func (ps *pipelineService) mustGetContent(ctx context.Context, contentID uuid.UUID) (*types.ExtractedContent, error) {
	item, err := ps.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if item == nil {
		return nil, apierr.NotFound("content_not_found", fmt.Errorf("content %s not found", contentID))
	}
	return item, nil
}

// failStage marks the item failed and surfaces the stage error. Artifacts
// from earlier stages stay in place so a retry resumes from the last good
// stage; the final video URL is cleared because failed items must not carry
// one.
func (ps *pipelineService) failStage(ctx context.Context, contentID uuid.UUID, stage string, stageErr error) error {
	updates := map[string]interface{}{
		"video_status": types.ContentVideoFailed,
		"video_url":    "",
		"last_error":   fmt.Sprintf("%s: %v", stage, stageErr),
	}
	if err := ps.contentRepo.SetArtifacts(ctx, nil, contentID, updates); err != nil {
		ps.log.Error("Failed to persist stage failure", "content_id", contentID, "stage", stage, "error", err)
	}
	ps.log.Warn("Pipeline stage failed", "content_id", contentID, "stage", stage, "error", stageErr)
	return apierr.Upstream(stage+"_failed", fmt.Errorf("%s stage: %w", stage, stageErr))
}

func (ps *pipelineService) applyArtifacts(ctx context.Context, contentID uuid.UUID, updates map[string]interface{}) (*types.ExtractedContent, error) {
	// A successful stage re-run on a failed item re-opens production.
	if _, hasStatus := updates["video_status"]; !hasStatus {
		current, err := ps.mustGetContent(ctx, contentID)
		if err != nil {
			return nil, err
		}
		if current.VideoStatus == types.ContentVideoFailed {
			updates["video_status"] = types.ContentVideoPending
			updates["last_error"] = ""
		}
	}
	if err := ps.contentRepo.SetArtifacts(ctx, nil, contentID, updates); err != nil {
		return nil, fmt.Errorf("persist stage artifacts: %w", err)
	}
	return ps.mustGetContent(ctx, contentID)
}

func normalizeLanguage(language string) (string, error) {
	switch language {
	case "", LanguageChinese:
		return LanguageChinese, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	default:
		return "", apierr.Validation("invalid_language", fmt.Errorf("language must be %q or %q", LanguageChinese, LanguageEnglish))
	}
}
