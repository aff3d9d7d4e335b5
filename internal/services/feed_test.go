package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/pkg/apierr"
	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type feedFixture struct {
	svc    FeedService
	videos *fakeVideoRepo
	users  *fakeUserRepo
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	videos := newFakeVideoRepo()
	users := newFakeUserRepo()
	return &feedFixture{
		svc:    NewFeedService(testDB(t), testLogger(t), videos, users),
		videos: videos,
		users:  users,
	}
}

func (f *feedFixture) addVideo(t *testing.T, status types.VideoStatus, disabled bool) *types.Video {
	t.Helper()
	video := &types.Video{
		ID:         uuid.New(),
		Title:      "clip",
		CategoryID: uuid.New(),
		VideoURL:   "https://cdn.example.com/v.mp4",
		Status:     status,
		Disabled:   disabled,
	}
	if _, err := f.videos.Create(context.Background(), nil, video); err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return video
}

func TestFeedListsOnlyVisibleVideos(t *testing.T) {
	t.Parallel()
	f := newFeedFixture(t)
	visible := f.addVideo(t, types.VideoStatusPublished, false)
	f.addVideo(t, types.VideoStatusPublished, true)
	f.addVideo(t, types.VideoStatusPendingReview, false)
	f.addVideo(t, types.VideoStatusRejected, false)

	videos, total, err := f.svc.ListVideos(context.Background(), nil, 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(videos) != 1 {
		t.Fatalf("expected exactly the visible video, got %d", len(videos))
	}
	if videos[0].ID != visible.ID {
		t.Fatalf("wrong video %s", videos[0].ID)
	}
	if !f.videos.lastFilter.VisibleOnly {
		t.Fatal("feed queries must set the visibility predicate")
	}
}

func TestFeedGetHidesNonVisibleVideo(t *testing.T) {
	t.Parallel()
	f := newFeedFixture(t)
	disabled := f.addVideo(t, types.VideoStatusPublished, true)
	pending := f.addVideo(t, types.VideoStatusPendingReview, false)

	for _, id := range []uuid.UUID{disabled.ID, pending.ID, uuid.New()} {
		_, err := f.svc.GetVideo(context.Background(), id)
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) || apiErr.Status != 404 {
			t.Fatalf("video %s: expected 404, got %v", id, err)
		}
	}
}

func TestRecordViewBumpsVideoAndAuthorCounters(t *testing.T) {
	t.Parallel()
	f := newFeedFixture(t)
	author := &types.User{ID: uuid.New(), Email: "author@example.com"}
	f.users.Create(context.Background(), nil, author)
	video := f.addVideo(t, types.VideoStatusPublished, false)
	f.videos.videos[video.ID].AuthorID = &author.ID

	if err := f.svc.RecordView(context.Background(), video.ID); err != nil {
		t.Fatalf("record view: %v", err)
	}
	if got := f.videos.videos[video.ID].ViewCount; got != 1 {
		t.Fatalf("view count %d, want 1", got)
	}
	gotAuthor, _ := f.users.GetByID(context.Background(), nil, author.ID)
	if gotAuthor.TotalViews != 1 {
		t.Fatalf("author views %d, want 1", gotAuthor.TotalViews)
	}
}

func TestRecordLikeRejectedForHiddenVideo(t *testing.T) {
	t.Parallel()
	f := newFeedFixture(t)
	video := f.addVideo(t, types.VideoStatusPublished, true)

	if err := f.svc.RecordLike(context.Background(), video.ID); err == nil {
		t.Fatal("likes on hidden videos must be rejected")
	}
	if got := f.videos.videos[video.ID].LikeCount; got != 0 {
		t.Fatalf("like count %d, want 0", got)
	}
}
