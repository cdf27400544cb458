package service

import (
	"context"
	"testing"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/repository"
	"vidtube-go/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPlaylists(t *testing.T) (*PlaylistService, *gorm.DB) {
	db := testutil.NewDB(t)
	svc := NewPlaylistService(
		repository.NewPlaylistRepository(db),
		repository.NewVideoRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestPlaylistFavoritesScenario(t *testing.T) {
	svc, db := setupPlaylists(t)
	ctx := context.Background()

	u1 := testutil.CreateUser(t, db, "u1")
	u2 := testutil.CreateUser(t, db, "u2")
	v := testutil.CreateVideo(t, db, u1, "clip")

	pl, err := svc.Create(ctx, u1.ID, &dto.CreatePlaylistRequest{Name: "Favorites"})
	require.NoError(t, err)

	_, err = svc.AddVideo(ctx, u2.ID, v.ID, pl.ID)
	assert.ErrorIs(t, err, ErrPlaylistNoPermission)

	detail, err := svc.AddVideo(ctx, u1.ID, v.ID, pl.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 1)
	assert.Equal(t, v.ID, detail.Videos[0].ID)

	_, err = svc.AddVideo(ctx, u1.ID, v.ID, pl.ID)
	assert.ErrorIs(t, err, ErrVideoAlreadyInPlaylist)

	detail, err = svc.Get(ctx, pl.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Videos, 1)
}

func TestPlaylistRemoveAbsentVideo(t *testing.T) {
	svc, db := setupPlaylists(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	a := testutil.CreateVideo(t, db, owner, "a")
	b := testutil.CreateVideo(t, db, owner, "b")

	pl, err := svc.Create(ctx, owner.ID, &dto.CreatePlaylistRequest{Name: "Mix"})
	require.NoError(t, err)
	_, err = svc.AddVideo(ctx, owner.ID, a.ID, pl.ID)
	require.NoError(t, err)

	_, err = svc.RemoveVideo(ctx, owner.ID, b.ID, pl.ID)
	assert.ErrorIs(t, err, ErrVideoNotInPlaylist)

	detail, err := svc.Get(ctx, pl.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 1)
	assert.Equal(t, a.ID, detail.Videos[0].ID)

	detail, err = svc.RemoveVideo(ctx, owner.ID, a.ID, pl.ID)
	require.NoError(t, err)
	assert.NotNil(t, detail.Videos)
	assert.Empty(t, detail.Videos)

	_, err = svc.AddVideo(ctx, owner.ID, 9999, pl.ID)
	assert.ErrorIs(t, err, ErrVideoNotFound)
}

func TestPlaylistUpdateGate(t *testing.T) {
	svc, db := setupPlaylists(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	other := testutil.CreateUser(t, db, "other")

	pl, err := svc.Create(ctx, owner.ID, &dto.CreatePlaylistRequest{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, &dto.CreatePlaylistRequest{Name: "Two"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, &dto.CreatePlaylistRequest{Name: " One "})
	assert.ErrorIs(t, err, ErrPlaylistNameTaken)
	_, err = svc.Create(ctx, owner.ID, &dto.CreatePlaylistRequest{Name: " "})
	assert.ErrorIs(t, err, ErrPlaylistNameRequired)

	_, err = svc.Update(ctx, other.ID, pl.ID, &dto.UpdatePlaylistRequest{})
	assert.ErrorIs(t, err, ErrPlaylistNoPermission)
	_, err = svc.Update(ctx, owner.ID, pl.ID, &dto.UpdatePlaylistRequest{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)
	_, err = svc.Update(ctx, owner.ID, pl.ID, &dto.UpdatePlaylistRequest{Name: strPtr("Two")})
	assert.ErrorIs(t, err, ErrPlaylistNameTaken)

	updated, err := svc.Update(ctx, owner.ID, pl.ID, &dto.UpdatePlaylistRequest{Name: strPtr("Renamed"), Description: strPtr("desc")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "desc", updated.Description)

	assert.ErrorIs(t, svc.Delete(ctx, other.ID, pl.ID), ErrPlaylistNoPermission)
	require.NoError(t, svc.Delete(ctx, owner.ID, pl.ID))
	_, err = svc.Get(ctx, pl.ID)
	assert.ErrorIs(t, err, ErrPlaylistNotFound)

	page, err := svc.ListByUser(ctx, owner.ID, &dto.ListQuery{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, "Two", page.Items[0].Name)

	_, err = svc.ListByUser(ctx, owner.ID, &dto.ListQuery{Limit: "51"})
	assert.Error(t, err)
	_, err = svc.ListByUser(ctx, 9999, &dto.ListQuery{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
