package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shelfcast/shelfcast-backend/internal/clients/studio"
	"github.com/shelfcast/shelfcast-backend/internal/pkg/logger"
	"github.com/shelfcast/shelfcast-backend/internal/repos"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// testDB opens a throwaway sqlite handle. The fakes below hold all state in
// memory; the handle only backs the Transaction calls some services make.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

type fakeBookRepo struct {
	books map[uuid.UUID]*types.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*types.Book)}
}

func (r *fakeBookRepo) Create(_ context.Context, _ *gorm.DB, book *types.Book) (*types.Book, error) {
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	if book.Status == "" {
		book.Status = types.BookStatusPending
	}
	r.books[book.ID] = book
	return book, nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) List(_ context.Context, _ *gorm.DB, _ repos.BookFilter) ([]*types.Book, int64, error) {
	out := make([]*types.Book, 0, len(r.books))
	for _, b := range r.books {
		copied := *b
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	book, ok := r.books[id]
	if !ok {
		return nil
	}
	if title, ok := updates["title"].(string); ok {
		book.Title = title
	}
	return nil
}

func (r *fakeBookRepo) AdvanceStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, next types.BookStatus) error {
	book, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book %s not found", id)
	}
	if book.Status == next {
		return nil
	}
	if !book.Status.CanAdvanceTo(next) {
		return fmt.Errorf("cannot move book from %q to %q: %w", book.Status, next, repos.ErrInvalidStatusTransition)
	}
	book.Status = next
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.books, id)
	return nil
}

type fakeContentRepo struct {
	items map[uuid.UUID]*types.ExtractedContent
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: make(map[uuid.UUID]*types.ExtractedContent)}
}

func (r *fakeContentRepo) CreateBatch(_ context.Context, _ *gorm.DB, items []*types.ExtractedContent) ([]*types.ExtractedContent, error) {
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.items[item.ID] = item
	}
	return items, nil
}

func (r *fakeContentRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.ExtractedContent, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeContentRepo) ListByBookID(_ context.Context, _ *gorm.DB, bookID uuid.UUID) ([]*types.ExtractedContent, error) {
	var out []*types.ExtractedContent
	for _, item := range r.items {
		if item.BookID == bookID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeContentRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return r.SetArtifacts(context.Background(), nil, id, updates)
}

func (r *fakeContentRepo) SetArtifacts(_ context.Context, _ *gorm.DB, id uuid.UUID, artifacts map[string]interface{}) error {
	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("content %s not found", id)
	}
	for key, val := range artifacts {
		switch key {
		case "video_status":
			item.VideoStatus = val.(types.ContentVideoStatus)
		case "avatar_image_url":
			item.AvatarImageURL = val.(string)
		case "audio_url":
			item.AudioURL = val.(string)
		case "english_audio_url":
			item.EnglishAudioURL = val.(string)
		case "silent_video_url":
			item.SilentVideoURL = val.(string)
		case "video_url":
			item.VideoURL = val.(string)
		case "english_video_url":
			item.EnglishVideoURL = val.(string)
		case "english_title":
			item.EnglishTitle = val.(string)
		case "english_summary":
			item.EnglishSummary = val.(string)
		case "last_error":
			item.LastError = val.(string)
		case "chapter_title":
			item.ChapterTitle = val.(string)
		case "summary":
			item.Summary = val.(string)
		default:
			return fmt.Errorf("unexpected artifact column %q", key)
		}
	}
	return nil
}

func (r *fakeContentRepo) DeleteByBookID(_ context.Context, _ *gorm.DB, bookID uuid.UUID) error {
	for id, item := range r.items {
		if item.BookID == bookID {
			delete(r.items, id)
		}
	}
	return nil
}

type fakeVideoRepo struct {
	videos     map[uuid.UUID]*types.Video
	lastFilter repos.VideoFilter
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uuid.UUID]*types.Video)}
}

func (r *fakeVideoRepo) Create(_ context.Context, _ *gorm.DB, video *types.Video) (*types.Video, error) {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	r.videos[video.ID] = video
	return video, nil
}

func (r *fakeVideoRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Video, error) {
	video, ok := r.videos[id]
	if !ok {
		return nil, nil
	}
	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) List(_ context.Context, _ *gorm.DB, filter repos.VideoFilter) ([]*types.Video, int64, error) {
	r.lastFilter = filter
	var out []*types.Video
	for _, v := range r.videos {
		if filter.VisibleOnly && !v.Visible() {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		copied := *v
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVideoRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	video, ok := r.videos[id]
	if !ok {
		return nil
	}
	if title, ok := updates["title"].(string); ok {
		video.Title = title
	}
	return nil
}

func (r *fakeVideoRepo) SetStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status types.VideoStatus, reviewNotes string) error {
	video, ok := r.videos[id]
	if !ok {
		return fmt.Errorf("video %s not found", id)
	}
	video.Status = status
	video.ReviewNotes = reviewNotes
	return nil
}

func (r *fakeVideoRepo) SetDisabled(_ context.Context, _ *gorm.DB, id uuid.UUID, disabled bool) error {
	video, ok := r.videos[id]
	if !ok {
		return fmt.Errorf("video %s not found", id)
	}
	video.Disabled = disabled
	return nil
}

func (r *fakeVideoRepo) IncrementViews(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if video, ok := r.videos[id]; ok {
		video.ViewCount++
	}
	return nil
}

func (r *fakeVideoRepo) IncrementLikes(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	if video, ok := r.videos[id]; ok {
		video.LikeCount++
	}
	return nil
}

func (r *fakeVideoRepo) CountByStatus(_ context.Context, _ *gorm.DB, status types.VideoStatus) (int64, error) {
	var n int64
	for _, v := range r.videos {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeVideoRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	return int64(len(r.videos)), nil
}

func (r *fakeVideoRepo) SumViewsAndLikes(_ context.Context, _ *gorm.DB) (int64, int64, error) {
	var views, likes int64
	for _, v := range r.videos {
		views += v.ViewCount
		likes += v.LikeCount
	}
	return views, likes, nil
}

func (r *fakeVideoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.videos, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*types.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]*types.Category)}
}

func (r *fakeCategoryRepo) SeedDefaults(_ context.Context, _ *gorm.DB, categories []*types.Category) error {
	for _, c := range categories {
		exists := false
		for _, have := range r.categories {
			if have.Name == c.Name {
				exists = true
				break
			}
		}
		if !exists {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			r.categories[c.ID] = c
		}
	}
	return nil
}

func (r *fakeCategoryRepo) List(_ context.Context, _ *gorm.DB) ([]*types.Category, error) {
	out := make([]*types.Category, 0, len(r.categories))
	for _, c := range r.categories {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) GetByName(_ context.Context, _ *gorm.DB, name string) (*types.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) add(name string) uuid.UUID {
	id := uuid.New()
	r.categories[id] = &types.Category{ID: id, Name: name}
	return id
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*types.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *types.User) (*types.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *gorm.DB, _, _ int) ([]*types.User, int64, error) {
	out := make([]*types.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	if username, ok := updates["username"].(string); ok {
		user.Username = username
	}
	if canPublish, ok := updates["can_publish"].(bool); ok {
		user.CanPublish = canPublish
	}
	return nil
}

func (r *fakeUserRepo) AddCounters(_ context.Context, _ *gorm.DB, id uuid.UUID, views, videos int64) error {
	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	user.TotalViews += views
	user.TotalVideos += videos
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ *gorm.DB) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

type fakeStatsRepo struct {
	rows map[string]*types.StatisticsDaily
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[string]*types.StatisticsDaily)}
}

func (r *fakeStatsRepo) Upsert(_ context.Context, _ *gorm.DB, stats *types.StatisticsDaily) (*types.StatisticsDaily, error) {
	if existing, ok := r.rows[stats.Date]; ok {
		stats.ID = existing.ID
	} else if stats.ID == uuid.Nil {
		stats.ID = uuid.New()
	}
	r.rows[stats.Date] = stats
	copied := *stats
	return &copied, nil
}

func (r *fakeStatsRepo) GetByDate(_ context.Context, _ *gorm.DB, date string) (*types.StatisticsDaily, error) {
	row, ok := r.rows[date]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (r *fakeStatsRepo) ListRange(_ context.Context, _ *gorm.DB, from, to string) ([]*types.StatisticsDaily, error) {
	var out []*types.StatisticsDaily
	for date, row := range r.rows {
		if from != "" && date < from {
			continue
		}
		if to != "" && date > to {
			continue
		}
		copied := *row
		out = append(out, &copied)
	}
	return out, nil
}

// fakeStudio lets each test script the stage outcomes and records call order.
type fakeStudio struct {
	calls []string

	chapters    []studio.Chapter
	extractErr  error
	avatarURL   string
	avatarErr   error
	audioURL    string
	audioErr    error
	silentURL   string
	silentErr   error
	mergedURL   string
	mergeErr    error
	translation studio.Translation
	translateErr error
}

func (s *fakeStudio) ExtractChapters(_ context.Context, _ studio.ExtractRequest) ([]studio.Chapter, error) {
	s.calls = append(s.calls, "extract")
	return s.chapters, s.extractErr
}

func (s *fakeStudio) GenerateAvatar(_ context.Context, _ studio.AvatarRequest) (string, error) {
	s.calls = append(s.calls, "avatar")
	return s.avatarURL, s.avatarErr
}

func (s *fakeStudio) GenerateAudio(_ context.Context, req studio.AudioRequest) (string, error) {
	s.calls = append(s.calls, "audio:"+req.Language)
	return s.audioURL, s.audioErr
}

func (s *fakeStudio) GenerateSilentVideo(_ context.Context, _ studio.SilentVideoRequest) (string, error) {
	s.calls = append(s.calls, "silent")
	return s.silentURL, s.silentErr
}

func (s *fakeStudio) MergeVideo(_ context.Context, req studio.MergeRequest) (string, error) {
	s.calls = append(s.calls, "merge:"+req.Language)
	return s.mergedURL, s.mergeErr
}

func (s *fakeStudio) Translate(_ context.Context, _ studio.TranslateRequest) (studio.Translation, error) {
	s.calls = append(s.calls, "translate")
	return s.translation, s.translateErr
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
