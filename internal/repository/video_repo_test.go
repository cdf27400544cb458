package repository

import (
	"context"
	"testing"
	"time"

	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParams(t *testing.T, q pagination.Query, spec *pagination.SortSpec) pagination.Params {
	t.Helper()
	p, err := pagination.Parse(q, spec)
	require.NoError(t, err)
	return p
}

func TestVideoListFiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateVideo(t, db, alice, "Go Basics")
	testutil.CreateVideo(t, db, alice, "Advanced go")
	testutil.CreateVideo(t, db, bob, "Cooking")
	hidden := testutil.CreateVideo(t, db, alice, "go private")
	require.NoError(t, db.Model(hidden).Update("is_published", false).Error)

	p := mustParams(t, pagination.Query{Limit: "1", SortBy: "title", SortOrder: "asc"}, pagination.VideoSearchSort)
	videos, total, err := repo.List(ctx, VideoFilter{Query: "GO", PublishedOnly: true}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, videos, 1)
	assert.Equal(t, "Advanced go", videos[0].Title)
	require.NotNil(t, videos[0].Owner)
	assert.Equal(t, "alice", videos[0].Owner.Username)

	p = mustParams(t, pagination.Query{}, pagination.VideoSearchSort)
	_, total, err = repo.List(ctx, VideoFilter{OwnerID: bob.ID, PublishedOnly: true}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestVideoDeleteCascadesEngagement(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	v := testutil.CreateVideo(t, db, owner, "doomed")
	c := &model.Comment{VideoID: v.ID, OwnerID: owner.ID, Content: "hi"}
	require.NoError(t, db.Create(c).Error)

	_, err := likes.ToggleVideo(ctx, owner.ID, v.ID)
	require.NoError(t, err)
	_, err = likes.ToggleComment(ctx, owner.ID, c.ID)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var likeCount, commentCount int64
	require.NoError(t, db.Model(&model.Like{}).Count(&likeCount).Error)
	require.NoError(t, db.Model(&model.Comment{}).Count(&commentCount).Error)
	assert.Zero(t, likeCount)
	assert.Zero(t, commentCount)

	deleted, err = repo.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListByOwnerWithCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	popular := testutil.CreateVideo(t, db, owner, "popular")
	testutil.CreateVideo(t, db, owner, "quiet")
	require.NoError(t, db.Model(popular).Update("views", 100).Error)

	_, err := likes.ToggleVideo(ctx, fan.ID, popular.ID)
	require.NoError(t, err)
	_, err = likes.ToggleVideo(ctx, owner.ID, popular.ID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Comment{VideoID: popular.ID, OwnerID: fan.ID, Content: "wow"}).Error)

	p := mustParams(t, pagination.Query{SortBy: "views"}, pagination.ChannelVideoSort)
	rows, total, err := repo.ListByOwnerWithCounts(ctx, owner.ID, p)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)

	assert.Equal(t, popular.ID, rows[0].ID)
	assert.Equal(t, int64(2), rows[0].LikesCount)
	assert.Equal(t, int64(1), rows[0].CommentsCount)
	assert.Zero(t, rows[1].LikesCount)
}

func TestGetChannelStats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)
	likes := NewLikeRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	a := testutil.CreateVideo(t, db, owner, "a")
	b := testutil.CreateVideo(t, db, owner, "b")
	require.NoError(t, db.Model(a).Update("views", 10).Error)
	require.NoError(t, db.Model(b).Update("views", 5).Error)
	_, err := likes.ToggleVideo(ctx, owner.ID, a.ID)
	require.NoError(t, err)

	stats, err := repo.GetChannelStats(ctx, owner.ID, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(15), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalLikes)
	assert.Equal(t, int64(2), stats.RecentVideos)
	assert.Equal(t, int64(15), stats.RecentViews)

	top, err := repo.GetMostViewed(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, top.ID)
}

func TestGetByIDsWithOwnerKeepsOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewVideoRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	v1 := testutil.CreateVideo(t, db, owner, "v1")
	v2 := testutil.CreateVideo(t, db, owner, "v2")

	videos, err := repo.GetByIDsWithOwner(context.Background(), []int64{v2.ID, 999, v1.ID})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, v2.ID, videos[0].ID)
	assert.Equal(t, v1.ID, videos[1].ID)
}
