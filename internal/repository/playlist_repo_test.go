package repository

import (
	"context"
	"testing"

	"vidtube-go/internal/model"
	"vidtube-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPlaylistVideosKeepInsertionOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaylistRepository(db)
	videos := NewVideoRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	v1 := testutil.CreateVideo(t, db, owner, "v1")
	v2 := testutil.CreateVideo(t, db, owner, "v2")
	v3 := testutil.CreateVideo(t, db, owner, "v3")

	pl := &model.Playlist{OwnerID: owner.ID, Name: "Favorites"}
	require.NoError(t, repo.Create(ctx, pl))

	for _, v := range []*model.Video{v3, v1, v2} {
		require.NoError(t, repo.AppendVideo(ctx, pl.ID, v.ID))
	}

	err := repo.AppendVideo(ctx, pl.ID, v1.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = videos.Delete(ctx, v1.ID)
	require.NoError(t, err)

	list, err := repo.ListVideos(ctx, pl.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v3.ID, list[0].ID)
	assert.Equal(t, v2.ID, list[1].ID)
	require.NotNil(t, list[0].Owner)

	removed, err := repo.RemoveVideo(ctx, pl.ID, v3.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveVideo(ctx, pl.ID, v3.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPlaylistNameUniquePerOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPlaylistRepository(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	first := &model.Playlist{OwnerID: alice.ID, Name: "Mix"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, &model.Playlist{OwnerID: bob.ID, Name: "Mix"}))

	err := repo.Create(ctx, &model.Playlist{OwnerID: alice.ID, Name: "Mix"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	taken, err := repo.NameTaken(ctx, alice.ID, "Mix", first.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.NameTaken(ctx, alice.ID, "Mix", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}
