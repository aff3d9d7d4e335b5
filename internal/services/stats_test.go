package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shelfcast/shelfcast-backend/internal/types"
)

type statsFixture struct {
	svc    StatsService
	users  *fakeUserRepo
	videos *fakeVideoRepo
	rows   *fakeStatsRepo
}

func newStatsFixture(t *testing.T) *statsFixture {
	t.Helper()
	users := newFakeUserRepo()
	videos := newFakeVideoRepo()
	rows := newFakeStatsRepo()
	return &statsFixture{
		svc:    NewStatsService(testDB(t), testLogger(t), users, videos, rows),
		users:  users,
		videos: videos,
		rows:   rows,
	}
}

func TestSummaryCountsLiveTables(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	f.users.Create(context.Background(), nil, &types.User{ID: uuid.New(), Email: "a@example.com"})
	f.users.Create(context.Background(), nil, &types.User{ID: uuid.New(), Email: "b@example.com"})
	f.videos.Create(context.Background(), nil, &types.Video{ID: uuid.New(), Status: types.VideoStatusPublished, ViewCount: 7, LikeCount: 2})
	f.videos.Create(context.Background(), nil, &types.Video{ID: uuid.New(), Status: types.VideoStatusPendingReview, ViewCount: 3})

	summary, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Users != 2 || summary.Videos != 2 {
		t.Fatalf("counts users=%d videos=%d", summary.Users, summary.Videos)
	}
	if summary.Views != 10 || summary.Likes != 2 {
		t.Fatalf("views=%d likes=%d", summary.Views, summary.Likes)
	}
	if summary.PendingReviews != 1 {
		t.Fatalf("pending reviews %d", summary.PendingReviews)
	}
}

func TestRollupTodayWritesSingleRow(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	f.users.Create(context.Background(), nil, &types.User{ID: uuid.New(), Email: "a@example.com"})

	if _, err := f.svc.RollupToday(context.Background()); err != nil {
		t.Fatalf("first rollup: %v", err)
	}
	f.users.Create(context.Background(), nil, &types.User{ID: uuid.New(), Email: "b@example.com"})
	row, err := f.svc.RollupToday(context.Background())
	if err != nil {
		t.Fatalf("second rollup: %v", err)
	}

	if len(f.rows.rows) != 1 {
		t.Fatalf("expected one row per day, got %d", len(f.rows.rows))
	}
	if row.Date != time.Now().Format("2006-01-02") {
		t.Fatalf("row date %q", row.Date)
	}
	if row.Users != 2 {
		t.Fatalf("second rollup must overwrite counters, users=%d", row.Users)
	}
}

func TestUpsertDailyValidatesDate(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)

	for _, date := range []string{"", "2026/08/30", "30-08-2026", "not-a-date"} {
		if _, err := f.svc.UpsertDaily(context.Background(), &types.StatisticsDaily{Date: date}); err == nil {
			t.Fatalf("date %q: expected validation error", date)
		}
	}
}

func TestListDailyRange(t *testing.T) {
	t.Parallel()
	f := newStatsFixture(t)
	for _, date := range []string{"2026-08-27", "2026-08-28", "2026-08-29"} {
		if _, err := f.svc.UpsertDaily(context.Background(), &types.StatisticsDaily{Date: date}); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
	}

	rows, err := f.svc.ListDaily(context.Background(), "2026-08-28", "2026-08-29")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows in range, got %d", len(rows))
	}
}
